package repository

import (
	"context"
	"time"

	"churn-prediction/backend/internal/prediction/domain"
)

// Repository defines persistence for churn_predictions.
type Repository interface {
	// Insert stores one prediction in its own transaction and sets p.ID.
	Insert(ctx context.Context, p *domain.Prediction) error
	// InsertBatch stores all predictions in one transaction; on error none are visible.
	InsertBatch(ctx context.Context, ps []domain.Prediction) error
	// ListRecent returns summaries newest first by id.
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Summary, error)
	// DeleteAll removes every row and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)
	// CountByRisk buckets rows by tier at query time.
	CountByRisk(ctx context.Context) ([]domain.RiskCount, error)
	// CountByDay counts rows created at or after since, per UTC day, ascending.
	CountByDay(ctx context.Context, since time.Time) ([]domain.DayCount, error)
	// Totals returns the row count and mean probability.
	Totals(ctx context.Context) (domain.Totals, error)
}
