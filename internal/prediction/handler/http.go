package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"churn-prediction/backend/internal/feature"
	"churn-prediction/backend/internal/insight"
	"churn-prediction/backend/internal/prediction/service"
	"churn-prediction/backend/internal/server/response"
)

// Handler serves POST /predict and POST /predict/batch.
type Handler struct {
	svc *service.PredictionService
}

// NewHandler returns a prediction handler backed by svc.
func NewHandler(svc *service.PredictionService) *Handler {
	return &Handler{svc: svc}
}

type predictResponse struct {
	ChurnProbability float64        `json:"churn_probability"`
	Prediction       int            `json:"prediction"`
	Risk             string         `json:"risk"`
	Insights         insight.Bundle `json:"insights"`
}

// BatchRow is one scored row of a batch response.
type BatchRow struct {
	CustomerID       string  `json:"customerID"`
	ChurnProbability float64 `json:"churn_probability"`
	Risk             string  `json:"risk"`
}

// BatchResponse is the body of a successful POST /predict/batch.
type BatchResponse struct {
	Status         string     `json:"status"`
	TotalProcessed int        `json:"total_processed"`
	HighRiskCount  int        `json:"high_risk_count"`
	PreviewRows    []BatchRow `json:"preview_rows"`
	FullResults    []BatchRow `json:"full_results"`
}

// NewBatchResponse renders a batch outcome in the wire format.
func NewBatchResponse(out *service.BatchOutcome) BatchResponse {
	return BatchResponse{
		Status:         "success",
		TotalProcessed: out.Total,
		HighRiskCount:  out.HighRisk,
		PreviewRows:    toRows(out.Preview),
		FullResults:    toRows(out.Results),
	}
}

// Predict scores one strictly validated JSON record.
func (h *Handler) Predict(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, readError(err))
		return
	}
	rec, err := feature.DecodeStrict(body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.svc.Predict(c.Request.Context(), rec)
	if err != nil {
		// Scoring and persistence failures on the single path are reported as bad input.
		_ = c.Error(err)
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	response.RespondOK(c, predictResponse{
		ChurnProbability: out.Result.Probability,
		Prediction:       out.Result.Prediction,
		Risk:             string(out.Result.Risk),
		Insights:         out.Insights,
	})
}

// PredictBatch scores an uploaded CSV file (multipart field "file").
func (h *Handler) PredictBatch(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			response.RespondError(c, http.StatusBadRequest, readError(err))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "A CSV file is required in the \"file\" field.")
		return
	}
	if !strings.HasSuffix(fh.Filename, ".csv") {
		response.RespondError(c, http.StatusBadRequest, "Invalid file type. Please upload a CSV.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid CSV file: "+err.Error())
		return
	}
	defer f.Close()

	out, err := h.svc.PredictCSV(c.Request.Context(), f)
	if err != nil {
		var (
			verr *feature.ValidationError
			serr *service.ScoringError
			perr *service.PersistenceError
		)
		switch {
		case errors.As(err, &verr):
			response.RespondError(c, http.StatusBadRequest, verr.Error())
		case errors.As(err, &serr):
			_ = c.Error(err)
			response.RespondError(c, http.StatusInternalServerError, "Model prediction failed: "+serr.Error())
		case errors.As(err, &perr):
			_ = c.Error(err)
			response.RespondError(c, http.StatusInternalServerError, "Failed to store predictions: "+perr.Error())
		default:
			_ = c.Error(err)
			response.RespondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.RespondOK(c, NewBatchResponse(out))
}

func toRows(items []service.BatchItem) []BatchRow {
	rows := make([]BatchRow, len(items))
	for i, it := range items {
		rows[i] = BatchRow{CustomerID: it.CustomerID, ChurnProbability: it.Probability, Risk: string(it.Risk)}
	}
	return rows
}

func readError(err error) string {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Sprintf("Request body exceeds the %d byte limit.", mbe.Limit)
	}
	return "Could not read request body: " + err.Error()
}
