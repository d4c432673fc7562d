package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"churn-prediction/backend/internal/telemetry"
	"churn-prediction/backend/internal/telemetry/domain"
)

// recordEmitter is the subset of otellog.Logger used by the event emitter.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return newEventEmitter(provider.Logger("churn.predictions"))
}

func newEventEmitter(logger recordEmitter) *otelEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetBody(otellog.StringValue(event.EventType))
	rec.AddAttributes(
		otellog.String("event_id", event.ID),
		otellog.String("event_type", event.EventType),
		otellog.Int("rows", event.Rows),
		otellog.Int("high_risk", event.HighRisk),
		otellog.Float64("mean_probability", event.MeanProbability),
	)
	if event.Source != "" {
		rec.AddAttributes(otellog.String("source", event.Source))
	}
	if event.RequestID != "" {
		rec.AddAttributes(otellog.String("request_id", event.RequestID))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
