package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/prediction/domain"
	"churn-prediction/backend/internal/server/middleware"
	"churn-prediction/backend/internal/telemetry"
	telemetrydomain "churn-prediction/backend/internal/telemetry/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 1000
	// TrendWindow is how far back the daily trend reaches.
	TrendWindow = 7 * 24 * time.Hour
)

var (
	ErrLimitOutOfRange = errors.New("limit must be between 1 and 1000")
	ErrNegativeOffset  = errors.New("offset must be zero or greater")
)

// Reader is the read and clear side of the prediction store.
type Reader interface {
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Summary, error)
	DeleteAll(ctx context.Context) (int64, error)
	CountByRisk(ctx context.Context) ([]domain.RiskCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]domain.DayCount, error)
	Totals(ctx context.Context) (domain.Totals, error)
}

// NamedCount is one risk_distribution entry.
type NamedCount struct {
	Name  string
	Value int64
}

// Report is the dashboard aggregate. Each part is read independently; there is no snapshot.
type Report struct {
	RiskDistribution []NamedCount
	Trends           []domain.DayCount
	TotalPredictions int64
	AvgRisk          float64
}

// AnalyticsService serves history and aggregate reads over stored predictions.
type AnalyticsService struct {
	store   Reader
	emitter telemetry.EventEmitter
	log     *logger.Logger
	now     func() time.Time
}

// NewAnalyticsService returns an AnalyticsService. emitter and log may be nil.
func NewAnalyticsService(store Reader, emitter telemetry.EventEmitter, log *logger.Logger) *AnalyticsService {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyticsService{store: store, emitter: emitter, log: log, now: time.Now}
}

// List returns up to limit predictions newest first after skipping offset rows.
func (s *AnalyticsService) List(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, ErrLimitOutOfRange
	}
	if offset < 0 {
		return nil, ErrNegativeOffset
	}
	return s.store.ListRecent(ctx, limit, offset)
}

// Clear deletes every stored prediction and returns how many rows were removed.
func (s *AnalyticsService) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("prediction history cleared", "rows", n)
	if s.emitter != nil {
		requestID, _ := middleware.GetRequestID(ctx)
		telemetry.EmitAsync(s.emitter, s.log, &telemetrydomain.Event{
			ID:        uuid.New().String(),
			EventType: telemetrydomain.EventHistoryCleared,
			Source:    "clear_history",
			RequestID: requestID,
			Rows:      int(n),
			CreatedAt: s.now().UTC(),
		})
	}
	return n, nil
}

// Report computes the risk distribution, the daily trend for the last TrendWindow and the totals.
func (s *AnalyticsService) Report(ctx context.Context) (*Report, error) {
	risks, err := s.store.CountByRisk(ctx)
	if err != nil {
		return nil, err
	}
	days, err := s.store.CountByDay(ctx, s.now().Add(-TrendWindow))
	if err != nil {
		return nil, err
	}
	totals, err := s.store.Totals(ctx)
	if err != nil {
		return nil, err
	}

	out := &Report{
		RiskDistribution: make([]NamedCount, len(risks)),
		Trends:           days,
		TotalPredictions: totals.Count,
		AvgRisk:          totals.Average,
	}
	if out.Trends == nil {
		out.Trends = []domain.DayCount{}
	}
	for i, rc := range risks {
		out.RiskDistribution[i] = NamedCount{Name: rc.Risk.Label(), Value: rc.Count}
	}
	return out, nil
}
