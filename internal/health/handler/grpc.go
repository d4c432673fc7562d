package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"churn-prediction/backend/internal/logger"
)

// ServiceName is the gRPC health service name reported alongside the overall ("") status.
const ServiceName = "churn.PredictionService"

// Pinger checks DB connectivity (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Prober keeps a grpc health server in sync with database reachability.
// Status is NOT_SERVING until the first successful probe.
type Prober struct {
	srv    *health.Server
	pinger Pinger
	log    *logger.Logger
}

// NewProber returns a Prober with a fresh health server in NOT_SERVING state.
func NewProber(pinger Pinger, log *logger.Logger) *Prober {
	if log == nil {
		log = logger.Nop()
	}
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Prober{srv: srv, pinger: pinger, log: log}
}

// Server returns the health server to register with grpc_health_v1.RegisterHealthServer.
func (p *Prober) Server() *health.Server { return p.srv }

// Probe pings the database once and updates the serving status. A nil pinger counts as healthy.
func (p *Prober) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if p.pinger != nil {
		if err := p.pinger.PingContext(ctx); err != nil {
			p.log.Warn("health: database ping failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	p.srv.SetServingStatus("", status)
	p.srv.SetServingStatus(ServiceName, status)
	return status
}

// Run probes immediately and then every interval until ctx is done, after which every
// status is set to NOT_SERVING.
func (p *Prober) Run(ctx context.Context, interval time.Duration) {
	p.Probe(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.srv.Shutdown()
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			p.Probe(probeCtx)
			cancel()
		}
	}
}
