// Package match scores postings against user preferences.
package match

import (
	"strings"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
)

// Score weights. The listed weights sum to 100; the clamp in
// ComputeMatchScore is a safety bound, not a normal path.
const (
	pointsTitleKeyword = 25
	pointsDescKeyword  = 15
	pointsLocation     = 15
	pointsMode         = 10
	pointsExperience   = 10
	pointsSkills       = 15
	pointsRecency      = 5
	pointsSource       = 5

	maxScore      = 100
	recentDaysMax = 2
)

// ComputeMatchScore returns the 0-100 relevance of a posting for the given
// preferences. Pure and deterministic; all text rules use case-insensitive
// substring semantics.
func ComputeMatchScore(posting models.Posting, prefs models.Preferences) int {
	score := 0

	keywords := SplitTokens(prefs.RoleKeywords)
	userSkills := SplitTokens(prefs.Skills)

	if len(keywords) > 0 {
		title := strings.ToLower(posting.Title)
		if anySubstring(title, keywords) {
			score += pointsTitleKeyword
		}
		description := strings.ToLower(posting.Description)
		if anySubstring(description, keywords) {
			score += pointsDescKeyword
		}
	}

	if len(prefs.PreferredLocations) > 0 && containsString(prefs.PreferredLocations, posting.Location) {
		score += pointsLocation
	}

	if len(prefs.PreferredModes) > 0 && containsMode(prefs.PreferredModes, posting.Mode) {
		score += pointsMode
	}

	if prefs.ExperienceLevel != "" && prefs.ExperienceLevel == posting.Experience {
		score += pointsExperience
	}

	if len(userSkills) > 0 && skillsOverlap(userSkills, posting.Skills) {
		score += pointsSkills
	}

	if posting.PostedDaysAgo <= recentDaysMax {
		score += pointsRecency
	}

	if posting.Source == models.SourceLinkedIn {
		score += pointsSource
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// SplitTokens splits comma-delimited free text into trimmed, lower-cased,
// non-empty tokens.
func SplitTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func anySubstring(haystack string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsMode(modes []models.Mode, target models.Mode) bool {
	for _, mode := range modes {
		if mode == target {
			return true
		}
	}
	return false
}

// skillsOverlap matches when any user skill token is a substring of, or
// contains, any posting skill. The bidirectional containment is kept as the
// product defined it, short tokens included.
func skillsOverlap(userSkills []string, postingSkills []string) bool {
	for _, userSkill := range userSkills {
		for _, postingSkill := range postingSkills {
			lowered := strings.ToLower(postingSkill)
			if strings.Contains(lowered, userSkill) || strings.Contains(userSkill, lowered) {
				return true
			}
		}
	}
	return false
}

// Tier is the coarse quality bucket derived from a score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierLow       Tier = "low"
)

// ScoreTier buckets a score into four half-open bins, inclusive on the
// lower edge of each tier.
func ScoreTier(score int) Tier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	default:
		return TierLow
	}
}
