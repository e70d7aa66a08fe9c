package integration_test

import (
	"log/slog"
	"os"

	"github.com/ayvazoglu/title-catalog/internal/app"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App *app.Application
	DB  *pgxpool.Pool
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	application := app.New(cfg, logger, db)

	return &TestApp{
		App: application,
		DB:  db,
	}, nil
}
