// server runs the churn prediction HTTP API and, when GRPC_ADDR is set, a gRPC health endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	analyticshandler "churn-prediction/backend/internal/analytics/handler"
	analyticsservice "churn-prediction/backend/internal/analytics/service"
	"churn-prediction/backend/internal/audit"
	auditrepo "churn-prediction/backend/internal/audit/repository"
	"churn-prediction/backend/internal/config"
	"churn-prediction/backend/internal/db"
	"churn-prediction/backend/internal/db/migrate"
	healthhandler "churn-prediction/backend/internal/health/handler"
	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/model"
	predictionhandler "churn-prediction/backend/internal/prediction/handler"
	predictionrepo "churn-prediction/backend/internal/prediction/repository"
	predictionservice "churn-prediction/backend/internal/prediction/service"
	"churn-prediction/backend/internal/server"
	"churn-prediction/backend/internal/server/middleware"
	"churn-prediction/backend/internal/telemetry"
	telemetryotel "churn-prediction/backend/internal/telemetry/otel"
	"churn-prediction/backend/internal/telemetry/producer"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server: exiting", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	// The artifact is immutable after load and shared by every request.
	artifact, err := model.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	log.Info("model loaded", "path", cfg.ModelPath, "kind", artifact.Kind(), "columns", len(artifact.Columns()))

	if cfg.AutoMigrate {
		if err := migrate.Run(cfg.DBDriver, cfg.DatabaseURL, "up"); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", "driver", cfg.DBDriver)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.Env,
		Insecure:    cfg.OTelInsecure,
		Prometheus:  cfg.MetricsEnabled,
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	providers.SetGlobal()

	metrics, err := telemetry.NewMetrics(providers.MeterProvider.Meter("churn-prediction/backend"))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	var emitter telemetry.EventEmitter
	if kp := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsTopic); kp != nil {
		defer kp.Close()
		emitter = kp
		log.Info("prediction events: kafka", "topic", cfg.EventsTopic)
	} else {
		emitter = telemetryotel.NewEventEmitter(providers.LoggerProvider)
		log.Info("prediction events: otel logs", "otlp", providers.OTLP)
	}

	dialect := db.DialectFor(cfg.DBDriver)
	predictions := predictionrepo.NewSQLRepository(conn, dialect)
	auditLogger := audit.NewLogger(auditrepo.NewSQLRepository(conn, dialect), middleware.GetClientIP, log)

	routerCfg := server.RouterConfig{
		Prediction: predictionhandler.NewHandler(
			predictionservice.NewPredictionService(artifact, predictions, emitter, metrics, log)),
		Analytics: analyticshandler.NewHandler(
			analyticsservice.NewAnalyticsService(predictions, emitter, log)),
		Health:         healthhandler.NewHTTP(conn),
		Audit:          auditLogger,
		AllowedOrigins: cfg.AllowedOrigins(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		ServiceName:    cfg.OTelServiceName,
		Log:            log,
	}
	if cfg.MetricsEnabled {
		routerCfg.MetricsHandler = providers.MetricsHandler
	}
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	var stopGRPC func()
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("grpc listen: %w", err)
		}
		prober := healthhandler.NewProber(conn, log)
		grpcSrv := server.NewGRPCServer(prober)
		stopGRPC = grpcSrv.GracefulStop
		g.Go(func() error {
			log.Info("gRPC health server listening", "addr", cfg.GRPCAddr)
			return grpcSrv.Serve(lis)
		})
		g.Go(func() error {
			prober.Run(gctx, cfg.HealthProbeInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		if stopGRPC != nil {
			stopGRPC()
		}
		return err
	})

	err = g.Wait()

	// Let in-flight async event emits finish before the exporters close.
	time.Sleep(telemetry.ShutdownDrainDuration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("telemetry shutdown", "error", shutdownErr)
	}
	log.Info("server stopped")
	return err
}
