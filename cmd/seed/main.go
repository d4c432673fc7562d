// seed loads a sample customer CSV through the batch prediction path so the dashboard has data.
// Idempotent: skips when churn_predictions already has rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"churn-prediction/backend/internal/config"
	"churn-prediction/backend/internal/db"
	"churn-prediction/backend/internal/logger"
	"churn-prediction/backend/internal/model"
	predictionrepo "churn-prediction/backend/internal/prediction/repository"
	predictionservice "churn-prediction/backend/internal/prediction/service"
)

func main() {
	file := flag.String("file", "ml/data/sample_customers.csv", "CSV file with the 20 feature columns")
	flag.Parse()

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

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	artifact, err := model.Load(cfg.ModelPath)
	if err != nil {
		log.Fatal("seed: load model", "error", err)
	}
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("seed: db", "error", err)
	}
	defer conn.Close()

	ctx := context.Background()
	repo := predictionrepo.NewSQLRepository(conn, db.DialectFor(cfg.DBDriver))
	totals, err := repo.Totals(ctx)
	if err != nil {
		log.Fatal("seed check", "error", err)
	}
	if totals.Count > 0 {
		log.Info("seed: predictions already present, skipping", "rows", totals.Count)
		return
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("seed: open csv", "error", err)
	}
	defer f.Close()

	svc := predictionservice.NewPredictionService(artifact, repo, nil, nil, log)
	out, err := svc.PredictCSV(ctx, f)
	if err != nil {
		log.Fatal("seed: score", "error", err)
	}
	log.Info("seed: done", "rows", out.Total, "high_risk", out.HighRisk)
}
