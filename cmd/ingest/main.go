package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ayvazoglu/title-catalog/internal/app"
	"github.com/ayvazoglu/title-catalog/internal/ingest"
	"github.com/ayvazoglu/title-catalog/internal/repository"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
)

func main() {
	var (
		dsn  string
		file string
	)

	flag.StringVar(&dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.StringVar(&file, "file", "data/netflix_titles.csv", "Path to the titles CSV file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := app.Config{
		DB: app.DBConfig{
			DSN:          dsn,
			MaxOpenConns: 10,
			MaxIdleTime:  time.Minute,
		},
	}

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		logger.Error("failed to open database pool", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	f, err := os.Open(file)
	if err != nil {
		logger.Error("failed to open dataset", "file", file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	loader := ingest.NewLoader(
		repository.NewPostgresTitleRepository(db),
		appvalidator.NewValidator(time.Now),
		logger,
	)

	report, err := loader.Load(context.Background(), f)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset loaded",
		"batch_id", report.BatchID,
		"rows", report.Rows,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
	)
}
