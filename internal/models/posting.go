package models

import "strings"

// Mode is the work arrangement of a posting.
type Mode string

const (
	ModeRemote Mode = "Remote"
	ModeHybrid Mode = "Hybrid"
	ModeOnsite Mode = "Onsite"
)

// ParseMode converts a raw string to a Mode. Unknown values return
// ok=false and a zero Mode that never matches a predicate.
func ParseMode(value string) (Mode, bool) {
	m := Mode(strings.TrimSpace(value))
	switch m {
	case ModeRemote, ModeHybrid, ModeOnsite:
		return m, true
	}
	return "", false
}

// Experience is the experience bracket requested by a posting.
type Experience string

const (
	ExperienceFresher   Experience = "Fresher"
	ExperienceZeroToOne Experience = "0-1"
	ExperienceOneToThree Experience = "1-3"
	ExperienceThreeToFive Experience = "3-5"
)

func ParseExperience(value string) (Experience, bool) {
	e := Experience(strings.TrimSpace(value))
	switch e {
	case ExperienceFresher, ExperienceZeroToOne, ExperienceOneToThree, ExperienceThreeToFive:
		return e, true
	}
	return "", false
}

// Posting is one immutable job listing from the catalog snapshot.
// ID uniquely identifies a posting for the lifetime of the snapshot.
type Posting struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	Mode          Mode       `json:"mode"`
	Experience    Experience `json:"experience"`
	Skills        []string   `json:"skills"`
	Description   string     `json:"description"`
	SalaryRange   string     `json:"salary_range"`
	Source        string     `json:"source"`
	PostedDaysAgo int        `json:"posted_days_ago"`
	ApplyURL      string     `json:"apply_url"`
}

// SourceLinkedIn is the only source that earns the score bonus.
const SourceLinkedIn = "LinkedIn"
