package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"churn-prediction/backend/internal/feature"
	"churn-prediction/backend/internal/insight"
	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/model"
	"churn-prediction/backend/internal/prediction/domain"
	"churn-prediction/backend/internal/server/middleware"
	"churn-prediction/backend/internal/telemetry"
	telemetrydomain "churn-prediction/backend/internal/telemetry/domain"
)

// PreviewLimit caps BatchOutcome.Preview.
const PreviewLimit = 100

// ScoringError wraps a model failure. The handler maps it to 400 on the single path and 500 on the batch path.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string { return e.Err.Error() }
func (e *ScoringError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure. When returned, no row of the request was committed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the minimal prediction repository needed by the service.
type Store interface {
	Insert(ctx context.Context, p *domain.Prediction) error
	InsertBatch(ctx context.Context, ps []domain.Prediction) error
}

// Outcome is the result of a single prediction.
type Outcome struct {
	ID       int64
	Result   domain.Result
	Insights insight.Bundle
}

// BatchItem is one row of a batch response.
type BatchItem struct {
	CustomerID  string
	Probability float64
	Risk        domain.Risk
}

// BatchOutcome summarizes a scored batch. Results are in input order; Preview holds at most
// PreviewLimit rows ordered by probability descending, ties in input order.
type BatchOutcome struct {
	Total    int
	HighRisk int
	Preview  []BatchItem
	Results  []BatchItem
}

// PredictionService scores records and persists every result before reporting success.
type PredictionService struct {
	scorer  model.Scorer
	store   Store
	emitter telemetry.EventEmitter
	metrics *telemetry.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewPredictionService returns a PredictionService. emitter, metrics and log may be nil.
func NewPredictionService(scorer model.Scorer, store Store, emitter telemetry.EventEmitter, metrics *telemetry.Metrics, log *logger.Logger) *PredictionService {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictionService{
		scorer:  scorer,
		store:   store,
		emitter: emitter,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// scoreAndPersist scores rows in one model call and writes every result in one transaction.
// Both Predict and PredictBatch go through it so stored rows have identical semantics.
func (s *PredictionService) scoreAndPersist(ctx context.Context, rows []feature.Record) ([]domain.Prediction, error) {
	probs, err := s.scorer.PredictProba(rows)
	if err != nil {
		return nil, &ScoringError{Err: err}
	}
	if len(probs) != len(rows) {
		return nil, &ScoringError{Err: fmt.Errorf("model returned %d probabilities for %d rows", len(probs), len(rows))}
	}

	ps := make([]domain.Prediction, len(rows))
	for i := range rows {
		ps[i] = domain.Prediction{
			Record:      rows[i],
			Probability: probs[i],
			Class:       domain.ClassFromProbability(probs[i]),
		}
	}

	// The write runs to commit or rollback even if the caller goes away.
	writeCtx := context.WithoutCancel(ctx)
	if len(ps) == 1 {
		err = s.store.Insert(writeCtx, &ps[0])
	} else {
		err = s.store.InsertBatch(writeCtx, ps)
	}
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return ps, nil
}

// Predict scores one validated record, stores it, and derives insights.
func (s *PredictionService) Predict(ctx context.Context, rec *feature.Record) (*Outcome, error) {
	ps, err := s.scoreAndPersist(ctx, []feature.Record{*rec})
	if err != nil {
		return nil, err
	}
	res := domain.NewResult(ps[0].Probability)

	s.metrics.RecordPredictions(ctx, "single", string(res.Risk), 1)
	high := 0
	if res.Risk == domain.RiskHigh {
		high = 1
	}
	s.emit(ctx, telemetrydomain.EventPredictionScored, "predict", 1, high, res.Probability)

	return &Outcome{ID: ps[0].ID, Result: res, Insights: insight.Derive(rec)}, nil
}

// PredictCSV parses a CSV upload leniently and scores it as one batch.
// Parse errors are *feature.ValidationError and nothing is scored or stored.
func (s *PredictionService) PredictCSV(ctx context.Context, r io.Reader) (*BatchOutcome, error) {
	rows, err := feature.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return s.PredictBatch(ctx, rows)
}

// PredictBatch scores rows in one model call and stores them atomically.
func (s *PredictionService) PredictBatch(ctx context.Context, rows []feature.Record) (*BatchOutcome, error) {
	if len(rows) == 0 {
		return Summarize(nil, nil), nil
	}
	ps, err := s.scoreAndPersist(ctx, rows)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(ps))
	var sum float64
	for i := range ps {
		probs[i] = ps[i].Probability
		sum += probs[i]
	}
	out := Summarize(rows, probs)

	tiers := make(map[domain.Risk]int, 3)
	for _, item := range out.Results {
		tiers[item.Risk]++
	}
	for risk, n := range tiers {
		s.metrics.RecordPredictions(ctx, "batch", string(risk), n)
	}
	s.metrics.RecordBatch(ctx, out.Total)
	s.emit(ctx, telemetrydomain.EventBatchScored, "predict_batch", out.Total, out.HighRisk, sum/float64(len(ps)))
	s.log.Info("batch scored", "rows", out.Total, "high_risk", out.HighRisk)

	return out, nil
}

// Summarize builds the batch response from rows and their probabilities (aligned by index).
// It does not touch the store, so offline tooling can reuse it.
func Summarize(rows []feature.Record, probs []float64) *BatchOutcome {
	out := &BatchOutcome{
		Total:   len(rows),
		Results: make([]BatchItem, len(rows)),
	}
	for i := range rows {
		risk := domain.RiskFromProbability(probs[i])
		if risk == domain.RiskHigh {
			out.HighRisk++
		}
		out.Results[i] = BatchItem{CustomerID: rows[i].CustomerID, Probability: probs[i], Risk: risk}
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})
	n := min(len(order), PreviewLimit)
	out.Preview = make([]BatchItem, n)
	for i := 0; i < n; i++ {
		out.Preview[i] = out.Results[order[i]]
	}
	return out
}

func (s *PredictionService) emit(ctx context.Context, eventType, source string, rows, high int, mean float64) {
	if s.emitter == nil {
		return
	}
	requestID, _ := middleware.GetRequestID(ctx)
	telemetry.EmitAsync(s.emitter, s.log, &telemetrydomain.Event{
		ID:              uuid.New().String(),
		EventType:       eventType,
		Source:          source,
		RequestID:       requestID,
		Rows:            rows,
		HighRisk:        high,
		MeanProbability: mean,
		CreatedAt:       s.now().UTC(),
	})
}
