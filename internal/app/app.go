// Package app wires configuration, storage, the model runtime and the
// session layer into a single container the commands can share.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plazadigital/tribubot/internal/chat"
	"github.com/plazadigital/tribubot/internal/config"
	"github.com/plazadigital/tribubot/internal/history"
	"github.com/plazadigital/tribubot/internal/knowledge"
	"github.com/plazadigital/tribubot/internal/rag"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store
	Retriever *rag.Retriever
	Engine    *chat.Engine
	History   history.Store

	otelCleanup func()
	dbCleanup   func()
}

// Close releases resources in reverse initialization order. Safe to call
// on a partially initialized App.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.dbCleanup != nil {
		a.dbCleanup()
		a.dbCleanup = nil
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
		a.otelCleanup = nil
	}

	return nil
}
