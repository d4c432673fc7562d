package domain

import (
	"time"

	"churn-prediction/backend/internal/feature"
)

// Risk is the tier derived from a churn probability.
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// Thresholds shared by the prediction path and the SQL bucketing in analytics.
const (
	ChurnThreshold    = 0.5
	MediumRiskCutoff  = 0.3
	HighRiskThreshold = 0.7
)

// RiskFromProbability maps p to its tier: HIGH at or above 0.7, MEDIUM at or above 0.3, else LOW.
func RiskFromProbability(p float64) Risk {
	switch {
	case p >= HighRiskThreshold:
		return RiskHigh
	case p >= MediumRiskCutoff:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ClassFromProbability returns 1 when p meets the churn threshold.
func ClassFromProbability(p float64) int {
	if p >= ChurnThreshold {
		return 1
	}
	return 0
}

// Label is the title-case form used by history and analytics responses ("High", "Medium", "Low").
func (r Risk) Label() string {
	switch r {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Result is the scored outcome for one record.
type Result struct {
	Probability float64
	Prediction  int
	Risk        Risk
}

// NewResult derives class and tier from p.
func NewResult(p float64) Result {
	return Result{Probability: p, Prediction: ClassFromProbability(p), Risk: RiskFromProbability(p)}
}

// Prediction is a row of churn_predictions. ID and CreatedAt are assigned on insert.
type Prediction struct {
	ID          int64
	CreatedAt   time.Time
	Record      feature.Record
	Probability float64
	Class       int
}

// Summary is the projection returned by the history listing.
type Summary struct {
	ID          int64
	CreatedAt   time.Time
	Probability float64
	Class       int
	CustomerID  string
}

// Risk derives the tier from the stored probability.
func (s Summary) Risk() Risk { return RiskFromProbability(s.Probability) }
