package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"churn-prediction/backend/internal/analytics/service"
	"churn-prediction/backend/internal/server/middleware"
	"churn-prediction/backend/internal/server/response"
)

// createdAtLayout matches the dashboard's expected timestamp text, e.g. "2026-10-18 09:30:00.123456+00:00".
const createdAtLayout = "2006-01-02 15:04:05.999999-07:00"

// Handler serves prediction history and dashboard aggregates.
type Handler struct {
	svc *service.AnalyticsService
}

// NewHandler returns an analytics handler backed by svc.
func NewHandler(svc *service.AnalyticsService) *Handler {
	return &Handler{svc: svc}
}

type historyItem struct {
	ID          int64   `json:"id"`
	CreatedAt   string  `json:"created_at"`
	Probability float64 `json:"probability"`
	Prediction  int     `json:"prediction"`
	CustomerID  string  `json:"customer_id"`
	Risk        string  `json:"risk"`
}

type namedValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type dayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type analyticsResponse struct {
	RiskDistribution []namedValue `json:"risk_distribution"`
	Trends           []dayCount   `json:"trends"`
	TotalPredictions int64        `json:"total_predictions"`
	AvgRisk          float64      `json:"avg_risk"`
}

// ListPredictions handles GET /predictions?limit=&offset=.
func (h *Handler) ListPredictions(c *gin.Context) {
	limit, ok := intQuery(c, "limit", service.DefaultLimit)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrLimitOutOfRange) || errors.Is(err, service.ErrNegativeOffset) {
			response.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to load predictions: "+err.Error())
		return
	}

	out := make([]historyItem, len(list))
	for i, s := range list {
		out[i] = historyItem{
			ID:          s.ID,
			CreatedAt:   s.CreatedAt.UTC().Format(createdAtLayout),
			Probability: s.Probability,
			Prediction:  s.Class,
			CustomerID:  s.CustomerID,
			Risk:        s.Risk().Label(),
		}
	}
	response.RespondOK(c, out)
}

// ClearPredictions handles DELETE /predictions. The acknowledgment is sent only after the delete commits.
func (h *Handler) ClearPredictions(c *gin.Context) {
	n, err := h.svc.Clear(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to clear history: "+err.Error())
		return
	}
	c.Set(middleware.AffectedRowsKey, n)
	response.RespondOK(c, response.StatusBody{Status: "ok", Message: "History cleared"})
}

// Analytics handles GET /analytics.
func (h *Handler) Analytics(c *gin.Context) {
	rep, err := h.svc.Report(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to compute analytics: "+err.Error())
		return
	}
	out := analyticsResponse{
		RiskDistribution: make([]namedValue, len(rep.RiskDistribution)),
		Trends:           make([]dayCount, len(rep.Trends)),
		TotalPredictions: rep.TotalPredictions,
		AvgRisk:          rep.AvgRisk,
	}
	for i, r := range rep.RiskDistribution {
		out.RiskDistribution[i] = namedValue{Name: r.Name, Value: r.Value}
	}
	for i, d := range rep.Trends {
		out.Trends[i] = dayCount{Date: d.Date, Count: d.Count}
	}
	response.RespondOK(c, out)
}

func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}
