package domain

import "time"

// Actions recorded in prediction_audit_log.
const (
	ActionClearHistory = "clear_history"
)

// AuditLog represents an audit event for a destructive operation.
type AuditLog struct {
	ID       string
	Action   string
	Resource string
	IP       string
	// Affected is the number of rows the operation changed.
	Affected  int64
	Metadata  string
	CreatedAt time.Time
}
