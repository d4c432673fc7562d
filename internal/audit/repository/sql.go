package repository

import (
	"context"
	"database/sql"
	"fmt"

	"churn-prediction/backend/internal/audit/domain"
	"churn-prediction/backend/internal/db"
)

// SQLRepository stores audit logs in prediction_audit_log.
type SQLRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewSQLRepository returns an audit log repository that uses conn for persistence.
func NewSQLRepository(conn *sql.DB, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{db: conn, dialect: dialect}
}

// Create persists a. The audit log must have ID set.
func (r *SQLRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	q := "INSERT INTO prediction_audit_log (id, action, resource, ip, affected, metadata, created_at) VALUES " +
		r.dialect.Placeholders(1, 7)
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx, q, a.ID, a.Action, a.Resource, a.IP, a.Affected, meta, a.CreatedAt.UTC())
	return err
}

// ListRecent returns up to limit audit logs, newest first.
func (r *SQLRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	q := fmt.Sprintf(
		"SELECT id, action, resource, ip, affected, metadata, created_at FROM prediction_audit_log ORDER BY created_at DESC, id LIMIT %s",
		r.dialect.Placeholder(1))
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a    domain.AuditLog
			meta sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Action, &a.Resource, &a.IP, &a.Affected, &meta, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Metadata = meta.String
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}
