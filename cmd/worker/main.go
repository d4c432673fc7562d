// Worker consumes prediction events from Kafka and pushes them to Loki.
// Set KAFKA_BROKERS, PREDICTION_EVENTS_TOPIC, KAFKA_GROUP_ID, and LOKI_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"churn-prediction/backend/internal/config"
	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/telemetry/loki"
	"churn-prediction/backend/internal/telemetry/worker"
)

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

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.LokiURL == "" {
		log.Fatal("worker: LOKI_URL is required")
	}

	reader := worker.NewKafkaReader(brokers, cfg.EventsTopic, cfg.KafkaGroupID)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("worker: consuming", "topic", cfg.EventsTopic, "group", cfg.KafkaGroupID, "loki", cfg.LokiURL)
	n := worker.New(reader, loki.NewClient(cfg.LokiURL, nil), log).Run(ctx)
	log.Info("worker: stopped", "pushed", n)
}
