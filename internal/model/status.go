package model

import "time"

// SyncState is the lifecycle state of a server-side sync job. The
// server only ever reports the first four values; StateIdle is the
// dashboard's explicit representation of "no status record exists for
// this account", so that every account maps to exactly one state.
type SyncState string

const (
	StateRunning   SyncState = "RUNNING"
	StatePaused    SyncState = "PAUSED"
	StateCompleted SyncState = "COMPLETED"
	StateError     SyncState = "ERROR"
	StateIdle      SyncState = "IDLE"
)

// SyncStatus is the server's report of one account's sync job. The
// dashboard holds a cached copy keyed by account ID; a poll result
// fully replaces the previous record, it is never merged field by
// field.
type SyncStatus struct {
	AccountID string    `json:"accountId"`
	State     SyncState `json:"status"`

	TotalEmails     int `json:"totalEmails"`
	ProcessedEmails int `json:"processedEmails"`
	NewEmails       int `json:"newEmails"`
	UpdatedEmails   int `json:"updatedEmails"`

	CurrentFolder string `json:"currentFolder,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`

	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// StateOf returns the state for a possibly-absent status record.
func StateOf(s *SyncStatus) SyncState {
	if s == nil {
		return StateIdle
	}
	return s.State
}

// Progress returns the whole-number completion percentage for the
// given counters. Totals of zero yield zero, and the result is clamped
// to [0, 100] in case the server reports processed > total.
func Progress(processed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(float64(processed)/float64(total)*100 + 0.5)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Progress returns the job's completion percentage.
func (s *SyncStatus) Progress() int {
	if s == nil {
		return 0
	}
	return Progress(s.ProcessedEmails, s.TotalEmails)
}
