// Package app assembles the service: storage, domain services, background
// workers, and the HTTP surface, all driven by config.Config.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/dimba-league/dimba-api/internal/config"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/infrastructure/account/introspect"
	"github.com/dimba-league/dimba-api/internal/infrastructure/eventsink"
	"github.com/dimba-league/dimba-api/internal/infrastructure/repository/memory"
	"github.com/dimba-league/dimba-api/internal/infrastructure/repository/postgres"
	"github.com/dimba-league/dimba-api/internal/interfaces/httpapi"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/resilience"
	"github.com/dimba-league/dimba-api/internal/platform/rng"
	"github.com/dimba-league/dimba-api/internal/usecase"
)

// App owns the HTTP server plus the background components that share its
// lifecycle: the event bus, the optional webhook forwarder, and the DB pool.
type App struct {
	Server *http.Server

	db        *sqlx.DB
	bus       *eventbus.Bus
	forwarder *eventsink.WebhookForwarder
	logger    *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, db, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(cfg.EventBufferSize, logger)
	rand := rng.NewFromTime()

	standingsSvc := usecase.NewStandingsService(st, logger)
	schedulerSvc := usecase.NewSchedulerService(st, rand, logger)
	bracketSvc := usecase.NewBracketService(st, standingsSvc, rand, logger)
	matchSvc := usecase.NewMatchService(st, standingsSvc, bracketSvc, bus, logger)
	qualificationSvc := usecase.NewQualificationService(st, standingsSvc, logger)
	seasonSvc := usecase.NewSeasonService(st, logger)
	competitionSvc := usecase.NewCompetitionService(st, logger)
	registrySvc := usecase.NewRegistryService(st, logger)

	accountClient := introspect.NewClient(introspect.Config{
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		Timeout:        cfg.AccountTimeout,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMax,
		},
	})

	forwarder := eventsink.NewWebhookForwarder(eventsink.Config{
		Enabled:    cfg.WebhookSinkEnabled,
		URL:        cfg.WebhookSinkURL,
		Timeout:    cfg.WebhookSinkTimeout,
		MaxRetries: cfg.WebhookSinkMaxRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookSinkCircuitEnabled,
			FailureThreshold: cfg.WebhookSinkCircuitFailCount,
			OpenTimeout:      cfg.WebhookSinkCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookSinkCircuitHalfOpenMax,
		},
	}, bus, logger)

	handler := httpapi.NewHandler(
		registrySvc,
		seasonSvc,
		competitionSvc,
		schedulerSvc,
		bracketSvc,
		matchSvc,
		standingsSvc,
		qualificationSvc,
		bus,
		logger,
	)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		db:        db,
		bus:       bus,
		forwarder: forwarder,
		logger:    logger,
	}, nil
}

// Start launches background workers. The HTTP server itself is started by the
// caller so it can decide how to handle ListenAndServe errors.
func (a *App) Start() {
	if a.forwarder != nil {
		a.forwarder.Start()
	}
}

// Shutdown stops the HTTP server, drains background workers, and closes the
// DB pool. Safe to call once after Start.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	if a.forwarder != nil {
		a.forwarder.Stop()
	}
	a.bus.Clear()

	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

func buildStore(cfg config.Config, logger *logging.Logger) (store.Store, *sqlx.DB, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Info("store backend", "backend", config.StoreMemory)
		return memory.NewStore(), nil, nil
	case config.StorePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store backend", "backend", config.StorePostgres, "db", dbNameFromURL(cfg.DBURL))
		return postgres.NewStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}
