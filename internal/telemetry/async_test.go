package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	done    chan struct{}
}

func newMockEmitter(err error) *mockEventEmitter {
	return &mockEventEmitter{emitErr: err, done: make(chan struct{}, 8)}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		panic("emit context must carry a deadline")
	}
	m.done <- struct{}{}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func (m *mockEventEmitter) wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async emit")
	}
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic
	EmitAsync(nil, logger.Nop(), &domain.Event{EventType: domain.EventBatchScored})
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := newMockEmitter(nil)
	EmitAsync(emitter, logger.Nop(), nil)
	time.Sleep(20 * time.Millisecond)
	if n := len(emitter.getEvents()); n != 0 {
		t.Errorf("emitted %d events for nil event, want 0", n)
	}
}

func TestEmitAsync_Delivers(t *testing.T) {
	emitter := newMockEmitter(nil)
	event := &domain.Event{ID: "e-1", EventType: domain.EventPredictionScored, Rows: 1}

	EmitAsync(emitter, logger.Nop(), event)
	emitter.wait(t)

	events := emitter.getEvents()
	if len(events) != 1 || events[0] != event {
		t.Fatalf("events = %v, want the emitted event", events)
	}
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	emitter := newMockEmitter(errors.New("broker down"))
	EmitAsync(emitter, nil, &domain.Event{EventType: domain.EventBatchScored})
	emitter.wait(t)
}

func TestShutdownDrainDuration(t *testing.T) {
	if ShutdownDrainDuration < emitTimeout {
		t.Errorf("ShutdownDrainDuration %v must be >= emitTimeout %v", ShutdownDrainDuration, emitTimeout)
	}
}
