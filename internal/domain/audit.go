package domain

import "time"

// Audit outcomes.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeError   = "error"
)

// QueryAudit records one query interaction for the audit trail.
type QueryAudit struct {
	RunID     string        `json:"run_id"`
	RequestID string        `json:"request_id,omitempty"`
	Query     string        `json:"query"`
	Filter    FilterState   `json:"filter"`
	Rows      int           `json:"rows"`
	Modes     []RenderMode  `json:"modes,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Outcome   string        `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	RanAt     time.Time     `json:"ran_at"`
}
