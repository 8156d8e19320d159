package models

import "time"

// SessionState is the lifecycle of the currently displayed analysis:
// empty → loading → {ready | error}. A new analyze request restarts the
// cycle; only the most recently issued request's outcome becomes visible.
type SessionState string

const (
	SessionEmpty   SessionState = "empty"
	SessionLoading SessionState = "loading"
	SessionReady   SessionState = "ready"
	SessionError   SessionState = "error"
)

// Session is an immutable snapshot of one UI session's visible state.
type Session struct {
	ID        string           `json:"id"`
	State     SessionState     `json:"state"`
	Month     string           `json:"month,omitempty"`
	Year      int              `json:"year,omitempty"`
	Summary   *AnalysisSummary `json:"summary,omitempty"` // set when State == ready
	Error     string           `json:"error,omitempty"`   // generic message when State == error
	UpdatedAt time.Time        `json:"updatedAt"`
}
