// Package server wires the HTTP router and the gRPC health server.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	analyticshandler "churn-prediction/backend/internal/analytics/handler"
	auditdomain "churn-prediction/backend/internal/audit/domain"
	healthhandler "churn-prediction/backend/internal/health/handler"
	"churn-prediction/backend/internal/logger"
	predictionhandler "churn-prediction/backend/internal/prediction/handler"
	"churn-prediction/backend/internal/server/middleware"
	"churn-prediction/backend/internal/server/response"
)

// RouterConfig holds the handlers and cross-cutting options for NewRouter.
type RouterConfig struct {
	Prediction *predictionhandler.Handler
	Analytics  *analyticshandler.Handler
	Health     *healthhandler.HTTP
	// Audit records destructive operations. If nil, nothing is audited.
	Audit middleware.AuditRecorder
	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler
	AllowedOrigins []string
	MaxUploadBytes int64
	ServiceName    string
	Log            *logger.Logger
}

// NewRouter returns the HTTP API:
//
//	GET    /                 liveness
//	GET    /healthz          readiness (database ping)
//	POST   /predict          single prediction
//	POST   /predict/batch    CSV batch prediction
//	GET    /predictions      recent history
//	DELETE /predictions      clear history
//	GET    /analytics        dashboard aggregates
//	GET    /metrics          Prometheus scrape
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.RequestContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	router.GET("/", func(c *gin.Context) {
		response.RespondOK(c, response.StatusBody{Status: "ok", Message: "API running"})
	})
	if cfg.Health != nil {
		router.GET("/healthz", cfg.Health.Healthz)
	}
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	if cfg.Prediction != nil {
		router.POST("/predict", cfg.Prediction.Predict)
		router.POST("/predict/batch", cfg.Prediction.PredictBatch)
	}
	if cfg.Analytics != nil {
		router.GET("/predictions", cfg.Analytics.ListPredictions)
		router.DELETE("/predictions",
			middleware.Audit(cfg.Audit, auditdomain.ActionClearHistory, "churn_predictions"),
			cfg.Analytics.ClearPredictions)
		router.GET("/analytics", cfg.Analytics.Analytics)
	}

	router.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "Not Found")
	})
	return router
}
