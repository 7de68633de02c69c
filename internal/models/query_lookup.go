package models

import "time"

// Query lookup outcome constants
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeInvalid = "invalid"
	OutcomeRemote  = "remote"
	OutcomeError   = "error"
)

// QueryLookup represents a per-keyword answer count by outcome. Keyword is
// the matched knowledge base keyword, or the outcome itself when nothing
// matched.
type QueryLookup struct {
	Keyword    string    `json:"keyword"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}
