package models

// Preferences are the user's matching criteria. RoleKeywords and Skills
// are comma-delimited free text; empty ExperienceLevel means unconstrained.
type Preferences struct {
	RoleKeywords       string     `json:"role_keywords"`
	PreferredLocations []string   `json:"preferred_locations"`
	PreferredModes     []Mode     `json:"preferred_modes"`
	ExperienceLevel    Experience `json:"experience_level"`
	Skills             string     `json:"skills"`
	MinMatchScore      int        `json:"min_match_score"`
}

// DefaultPreferences returns the initial criteria used before the user has
// saved anything.
func DefaultPreferences() Preferences {
	return Preferences{MinMatchScore: 40}
}
