package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the prediction instruments. A nil *Metrics records nothing.
type Metrics struct {
	predictions metric.Int64Counter
	batchRows   metric.Int64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	predictions, err := meter.Int64Counter("churn.predictions",
		metric.WithDescription("Scored and persisted predictions"),
		metric.WithUnit("{prediction}"))
	if err != nil {
		return nil, err
	}
	batchRows, err := meter.Int64Histogram("churn.batch.rows",
		metric.WithDescription("Rows per committed batch upload"),
		metric.WithUnit("{row}"),
		metric.WithExplicitBucketBoundaries(1, 10, 100, 1000, 5000, 10000, 50000))
	if err != nil {
		return nil, err
	}
	return &Metrics{predictions: predictions, batchRows: batchRows}, nil
}

// RecordPredictions adds n predictions in one risk tier from the given path ("single" or "batch").
func (m *Metrics) RecordPredictions(ctx context.Context, path, risk string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.predictions.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("risk", risk),
	))
}

// RecordBatch records the size of one committed batch.
func (m *Metrics) RecordBatch(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.batchRows.Record(ctx, int64(rows))
}
