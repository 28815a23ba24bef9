// Package pipeline composes the catalog, the score engine and the status
// ledger into an ordered view.
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/match"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
)

// All is the sentinel filter value whose predicate is always true. An empty
// filter value means the same.
const All = "all"

// SortKey selects the single total order applied after filtering.
type SortKey string

const (
	SortLatest     SortKey = "latest"
	SortOldest     SortKey = "oldest"
	SortMatchScore SortKey = "matchScore"
	SortSalary     SortKey = "salary"
	SortCompany    SortKey = "company"
)

// Filters are independent AND-combined predicates. A value outside the
// enumerated set for mode, experience or status matches nothing rather than
// failing; the result degrades to empty.
type Filters struct {
	Keyword    string
	Location   string
	Mode       string
	Experience string
	Source     string
	Status     string
	MatchOnly  bool
	Sort       SortKey
}

// Result is a posting with its score attached.
type Result struct {
	Posting models.Posting
	Score   int
}

// Apply filters and orders the catalog. The match-only predicate activates
// only when preferences have been explicitly saved. Sorting is stable, so
// ties keep catalog order.
func Apply(catalog []models.Posting, filters Filters, prefs models.Preferences, hasPrefs bool, statusOf func(int) models.Status) []Result {
	results := make([]Result, 0, len(catalog))
	for _, posting := range catalog {
		if !matches(posting, filters, statusOf) {
			continue
		}
		score := match.ComputeMatchScore(posting, prefs)
		if filters.MatchOnly && hasPrefs && score < prefs.MinMatchScore {
			continue
		}
		results = append(results, Result{Posting: posting, Score: score})
	}

	sortResults(results, filters.Sort)
	return results
}

func matches(posting models.Posting, filters Filters, statusOf func(int) models.Status) bool {
	if keyword := strings.ToLower(strings.TrimSpace(filters.Keyword)); keyword != "" {
		title := strings.ToLower(posting.Title)
		company := strings.ToLower(posting.Company)
		if !strings.Contains(title, keyword) && !strings.Contains(company, keyword) {
			return false
		}
	}

	if !isAll(filters.Location) && posting.Location != filters.Location {
		return false
	}

	if !isAll(filters.Mode) {
		mode, ok := models.ParseMode(filters.Mode)
		if !ok || posting.Mode != mode {
			return false
		}
	}

	if !isAll(filters.Experience) {
		experience, ok := models.ParseExperience(filters.Experience)
		if !ok || posting.Experience != experience {
			return false
		}
	}

	if !isAll(filters.Source) && posting.Source != filters.Source {
		return false
	}

	if !isAll(filters.Status) {
		wanted, ok := models.ParseStatus(filters.Status)
		if !ok || statusOf(posting.ID) != wanted {
			return false
		}
	}

	return true
}

func isAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

func sortResults(results []Result, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Posting.PostedDaysAgo > results[j].Posting.PostedDaysAgo
		})
	case SortMatchScore:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	case SortSalary:
		sort.SliceStable(results, func(i, j int) bool {
			return SalaryValue(results[i].Posting.SalaryRange) > SalaryValue(results[j].Posting.SalaryRange)
		})
	case SortCompany:
		collator := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(results, func(i, j int) bool {
			return collator.CompareString(results[i].Posting.Company, results[j].Posting.Company) < 0
		})
	default:
		// latest, and the fallback for unrecognized keys
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Posting.PostedDaysAgo < results[j].Posting.PostedDaysAgo
		})
	}
}

// SalaryValue extracts the first maximal digit run from a free-text salary
// range. No digits means 0.
func SalaryValue(salaryRange string) int {
	start := -1
	for i, r := range salaryRange {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			value, err := strconv.Atoi(salaryRange[start:i])
			if err != nil {
				return 0
			}
			return value
		}
	}
	if start >= 0 {
		value, err := strconv.Atoi(salaryRange[start:])
		if err != nil {
			return 0
		}
		return value
	}
	return 0
}
