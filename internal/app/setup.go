package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/plazadigital/tribubot/db"
	"github.com/plazadigital/tribubot/internal/chat"
	"github.com/plazadigital/tribubot/internal/config"
	"github.com/plazadigital/tribubot/internal/history"
	"github.com/plazadigital/tribubot/internal/knowledge"
	"github.com/plazadigital/tribubot/internal/observability"
	"github.com/plazadigital/tribubot/internal/rag"
)

// RetrieverName is the Genkit registry name for the campaign document
// retriever.
const RetrieverName = "campaign-docs"

// Outbound model call throttling. Gemini free-tier quotas are per minute,
// so a small sustained rate with a burst absorbs bursty chat traffic.
const (
	modelRequestsPerSecond = 2
	modelRequestBurst      = 4
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing must be registered before genkit.Init picks up the provider.
	a.otelCleanup = observability.SetupTracing(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}, logger)

	pool, dbCleanup, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.dbCleanup = dbCleanup
	a.DBPool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	store, err := knowledge.New(pool, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("creating knowledge store: %w", err)
	}
	a.Knowledge = store

	retriever, err := rag.New(store)
	if err != nil {
		return nil, fmt.Errorf("creating retriever: %w", err)
	}
	retriever.Define(g, RetrieverName)
	a.Retriever = retriever

	engine, err := chat.New(chat.Config{
		Genkit:      g,
		Retriever:   retriever,
		Logger:      logger,
		ModelName:   qualifiedModel(cfg.ModelName),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopK:        cfg.TopK,
		Timeout:     time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Retry:       chat.RetryConfig{MaxRetries: cfg.MaxRetries},
		Limiter:     rate.NewLimiter(rate.Limit(modelRequestsPerSecond), modelRequestBurst),
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat engine: %w", err)
	}
	a.Engine = engine

	a.History = history.NewMemoryStore(
		history.WithMaxTurns(cfg.MaxHistoryTurns),
		history.WithLogger(logger),
	)

	return a, nil
}

// provideGenkit initializes Genkit with the Gemini plugin.
// Call ordering in Setup ensures tracing is registered first.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	logger.Info("initialized genkit", "model", cfg.ModelName, "embedder", cfg.EmbedderModel)
	return g, nil
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	connURL := cfg.PostgresURL()

	if err := db.Migrate(connURL, logger); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	cleanup := func() {
		pool.Close()
		logger.Info("database pool closed")
	}

	return pool, cleanup, nil
}

// qualifiedModel prefixes the Gemini provider namespace when the configured
// model name is bare, so "gemini-2.5-flash" resolves in the Genkit registry.
func qualifiedModel(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return "googleai/" + name
}
