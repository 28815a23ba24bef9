package models

import "strings"

// Status is the user's application-progress tag for a posting.
type Status string

const (
	StatusNotApplied Status = "Not Applied"
	StatusApplied    Status = "Applied"
	StatusRejected   Status = "Rejected"
	StatusSelected   Status = "Selected"
)

// ParseStatus converts a raw string to a Status, rejecting values outside
// the enumerated set.
func ParseStatus(value string) (Status, bool) {
	s := Status(strings.TrimSpace(value))
	switch s {
	case StatusNotApplied, StatusApplied, StatusRejected, StatusSelected:
		return s, true
	}
	return "", false
}

// StatusChange is one entry of the global status history, newest first.
// Date is an ISO 8601 timestamp.
type StatusChange struct {
	PostingID int    `json:"posting_id"`
	Status    Status `json:"status"`
	Date      string `json:"date"`
}
