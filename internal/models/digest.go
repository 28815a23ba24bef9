package models

// DigestEntry is one posting frozen into a daily digest.
type DigestEntry struct {
	PostingID  int        `json:"posting_id"`
	Title      string     `json:"title"`
	Company    string     `json:"company"`
	Location   string     `json:"location"`
	Experience Experience `json:"experience"`
	Score      int        `json:"score"`
	ApplyURL   string     `json:"apply_url"`
}

// DigestSnapshot is the persisted top-matches summary for one calendar day.
// DateKey is a local YYYY-MM-DD date; GeneratedAt is an ISO 8601 timestamp.
// At most one snapshot exists per DateKey.
type DigestSnapshot struct {
	DateKey     string        `json:"date_key"`
	Entries     []DigestEntry `json:"entries"`
	GeneratedAt string        `json:"generated_at"`
}
