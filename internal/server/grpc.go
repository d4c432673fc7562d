package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	healthhandler "churn-prediction/backend/internal/health/handler"
)

// NewGRPCServer returns a gRPC server exposing the standard health service backed by prober.
// Calls are traced with the global OpenTelemetry providers.
func NewGRPCServer(prober *healthhandler.Prober) *grpc.Server {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthpb.RegisterHealthServer(s, prober.Server())
	return s
}
