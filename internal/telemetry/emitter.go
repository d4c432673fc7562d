package telemetry

import (
	"context"

	"churn-prediction/backend/internal/telemetry/domain"
)

// EventEmitter emits prediction events (e.g. to Kafka or OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}
