package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"churn-prediction/backend/internal/telemetry/domain"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), &domain.Event{EventType: domain.EventBatchScored}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestEmit_NilEvent_ReturnsNil(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	if err := NewEventEmitter(provider).Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec   otellog.Record
	calls int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.calls++
}

func attrs(rec otellog.Record) map[string]otellog.Value {
	out := map[string]otellog.Value{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		out[kv.Key] = kv.Value
		return true
	})
	return out
}

func TestEmit_AttributeMapping(t *testing.T) {
	capture := &recordCapture{}
	em := newEventEmitter(capture)
	created := time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC)

	err := em.Emit(context.Background(), &domain.Event{
		ID: "e-9", EventType: domain.EventBatchScored, Source: "batch", RequestID: "req-1",
		Rows: 10, HighRisk: 4, MeanProbability: 0.55, CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if capture.calls != 1 {
		t.Fatalf("calls = %d, want 1", capture.calls)
	}
	if !capture.rec.Timestamp().Equal(created) {
		t.Errorf("timestamp = %v", capture.rec.Timestamp())
	}
	if capture.rec.Body().AsString() != domain.EventBatchScored {
		t.Errorf("body = %v", capture.rec.Body())
	}
	a := attrs(capture.rec)
	if a["rows"].AsInt64() != 10 || a["high_risk"].AsInt64() != 4 {
		t.Errorf("counts = %v / %v", a["rows"], a["high_risk"])
	}
	if a["mean_probability"].AsFloat64() != 0.55 {
		t.Errorf("mean_probability = %v", a["mean_probability"])
	}
	if a["request_id"].AsString() != "req-1" || a["source"].AsString() != "batch" {
		t.Errorf("attrs = %v", a)
	}
}

func TestEmit_DefaultsTimestamp(t *testing.T) {
	capture := &recordCapture{}
	before := time.Now().UTC()
	if err := newEventEmitter(capture).Emit(context.Background(), &domain.Event{EventType: "x"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if capture.rec.Timestamp().Before(before) {
		t.Errorf("timestamp %v should default to now", capture.rec.Timestamp())
	}
	if _, ok := attrs(capture.rec)["request_id"]; ok {
		t.Error("request_id should be omitted when empty")
	}
}
