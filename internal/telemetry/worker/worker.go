// Package worker forwards prediction events from Kafka to Loki.
package worker

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"churn-prediction/backend/internal/logger"
)

// pushTimeout bounds a single Loki push.
const pushTimeout = 10 * time.Second

// MessageReader is the subset of *kafka.Reader used by the worker.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Pusher ships one raw event document (e.g. *loki.Client).
type Pusher interface {
	PushEventJSON(ctx context.Context, rawJSON []byte) error
}

// Worker reads events and pushes each one. Push failures are logged and the message is skipped.
type Worker struct {
	reader MessageReader
	pusher Pusher
	log    *logger.Logger
}

// New returns a Worker. log may be nil.
func New(reader MessageReader, pusher Pusher, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{reader: reader, pusher: pusher, log: log}
}

// NewKafkaReader returns a consumer-group reader for topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
}

// Run consumes until ctx is done and returns the number of events pushed.
func (w *Worker) Run(ctx context.Context) int {
	pushed := 0
	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return pushed
			}
			w.log.Warn("worker: kafka read error", "error", err)
			select {
			case <-ctx.Done():
				return pushed
			case <-time.After(time.Second):
			}
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		err = w.pusher.PushEventJSON(pushCtx, msg.Value)
		cancel()
		if err != nil {
			w.log.Warn("worker: loki push failed", "key", string(msg.Key), "offset", msg.Offset, "error", err)
			continue
		}
		pushed++
	}
}
