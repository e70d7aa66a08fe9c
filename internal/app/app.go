package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayvazoglu/title-catalog/internal/domain"
	"github.com/ayvazoglu/title-catalog/internal/repository"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
	"github.com/ayvazoglu/title-catalog/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxstd "github.com/jackc/pgx/v5/stdlib"
	"github.com/riandyrn/otelchi"
)

var (
	version = vcs.Version()
)

const (
	ServiceName = "title-catalog-api"

	// RecentWindowDays is the trailing window of the recent-titles query.
	RecentWindowDays = 30
	// RecentLimit caps the recent-titles result set.
	RecentLimit = 20
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	validator *validator.Validate
	titleRepo domain.TitleRepository

	// now is the single clock of the application; handlers and validation
	// read it so tests can pin the calendar.
	now func() time.Time
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	OtelCollectorURL string
	AutoMigrate      bool
	MigrationsPath   string
	RateLimit        RateLimitConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RateLimitConfig struct {
	Enabled      bool
	RequestLimit int
	WindowLength time.Duration
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.AutoMigrate, "db-automigrate", false, "Apply pending migrations on startup")
	flag.StringVar(&cfg.MigrationsPath, "db-migrations", "file://migrations", "Migrations source URL")

	flag.StringVar(&cfg.OtelCollectorURL, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.BoolVar(&cfg.RateLimit.Enabled, "rate-limit-enabled", true, "Enable per-IP rate limiting")
	flag.IntVar(&cfg.RateLimit.RequestLimit, "rate-limit-requests", 100, "Max requests per IP per window")
	flag.DurationVar(&cfg.RateLimit.WindowLength, "rate-limit-window", time.Minute, "Rate limit window length")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		logger.Error("failed to open database pool", "error", err)
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := ApplyMigrations(cfg.DB.DSN, cfg.MigrationsPath); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			return err
		}

		logger.Info("database migrations applied")
	}

	app := New(cfg, logger, db)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

func New(cfg Config, logger *slog.Logger, db *pgxpool.Pool) *Application {
	return &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		validator: appvalidator.NewValidator(time.Now),
		titleRepo: repository.NewPostgresTitleRepository(db),
		now:       time.Now,
	}
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplyMigrations runs any pending schema migrations against the database.
// The integration suite uses the same path against its test container.
func ApplyMigrations(dsn string, migrationsURL string) error {
	config, err := pgxv5.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	db := pgxstd.OpenDB(*config)
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("pgx migration driver error: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsURL, "pgx", driver)
	if err != nil {
		return fmt.Errorf("migrate.New error: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware(ServiceName, otelchi.WithChiRoutes(r)))

	if app.config.RateLimit.Enabled {
		r.Use(httprate.Limit(
			app.config.RateLimit.RequestLimit,
			app.config.RateLimit.WindowLength,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(app.rateLimitExceededResponse),
		))
	}

	r.Get("/health", app.GetHealth)

	r.Route("/titles", func(r chi.Router) {
		r.Get("/", app.ListTitles)
		r.Post("/", app.CreateTitle)

		r.Get("/movies", app.GetMovies)
		r.Get("/tv-shows", app.GetTVShows)
		r.Get("/by-year/{year}", app.GetTitlesByYear)
		r.Get("/by-genre/{genre}", app.GetTitlesByGenre)
		r.Get("/recent", app.GetRecentTitles)
		r.Get("/stats", app.GetTitleStats)

		r.Get("/{id}", app.GetTitle)
		r.Put("/{id}", app.UpdateTitle)
		r.Delete("/{id}", app.DeleteTitle)
	})

	return r
}
