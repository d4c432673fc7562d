package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"churn-prediction/backend/internal/server/response"
)

const pingTimeout = 2 * time.Second

// HTTP serves GET /healthz.
type HTTP struct {
	pinger Pinger
}

// NewHTTP returns a readiness handler. pinger may be nil; then the check always passes.
func NewHTTP(pinger Pinger) *HTTP {
	return &HTTP{pinger: pinger}
}

// Healthz returns 200 when the database answers a ping, 503 otherwise.
func (h *HTTP) Healthz(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "database unavailable: "+err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
