package domain

import "time"

// Event types emitted after a committed prediction write.
const (
	EventPredictionScored = "prediction_scored"
	EventBatchScored      = "batch_scored"
	EventHistoryCleared   = "history_cleared"
)

// Event is one prediction pipeline event. It is serialized as JSON onto Kafka and read back by
// the worker, so field names are part of the wire format.
type Event struct {
	ID              string    `json:"id"`
	EventType       string    `json:"eventType"`
	Source          string    `json:"source"`
	RequestID       string    `json:"requestId,omitempty"`
	Rows            int       `json:"rows"`
	HighRisk        int       `json:"highRisk"`
	MeanProbability float64   `json:"meanProbability"`
	CreatedAt       time.Time `json:"createdAt"`
}
