// Package api exposes the campaign chatbot over HTTP.
//
// Endpoints:
//
//	POST /chat                       general RAG conversation with history
//	POST /tribal-analysis            referral-link request classification
//	POST /analytics-chat             personalized analytics summaries
//	GET  /sessions/{id}/history      stored turns for a session
//	DELETE /sessions/{id}            drop a session's history
//	GET  /                           liveness message
//	GET  /health                     liveness probe
//	GET  /ready                      readiness probe (DB + engine)
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plazadigital/tribubot/internal/history"
	"github.com/plazadigital/tribubot/internal/tribal"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8000"

	// ShutdownTimeout caps graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout guards against slow-header clients.
	ReadHeaderTimeout = 10 * time.Second

	ReadTimeout  = 30 * time.Second
	WriteTimeout = 120 * time.Second
	IdleTimeout  = 120 * time.Second
)

// Completer is the engine surface the handlers consume.
// Implemented by chat.Engine.
type Completer interface {
	// Answer responds to a query grounded on the knowledge index.
	Answer(ctx context.Context, query string, turns []history.Turn) (string, error)

	// Complete sends a pre-built prompt without retrieval.
	Complete(ctx context.Context, prompt string, turns []history.Turn) (string, error)
}

// Deps are the collaborators the server needs. Completer may be nil while
// the engine is still initializing; affected endpoints answer 503 until it
// is set.
type Deps struct {
	Completer Completer
	Matcher   *tribal.Matcher
	History   history.Store
	Pool      *pgxpool.Pool
	Logger    *slog.Logger

	// CORSOrigins lists origins allowed to call the API; "*" allows any.
	CORSOrigins []string
}

// Server is the HTTP server for the chatbot API.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger

	chat      *ChatHandler
	tribal    *TribalHandler
	analytics *AnalyticsHandler
	sessions  *SessionHandler
	health    *HealthHandler

	corsOrigins []string
}

// NewServer creates a server with all routes registered.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	matcher := deps.Matcher
	if matcher == nil {
		matcher = tribal.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:       mux,
		logger:    logger,
		chat:      NewChatHandler(deps.Completer, deps.History, logger),
		tribal:    NewTribalHandler(deps.Completer, matcher, logger),
		analytics: NewAnalyticsHandler(deps.Completer, logger),
		sessions:  NewSessionHandler(deps.History, logger),
		health:    NewHealthHandler(deps.Pool, deps.Completer, logger),

		corsOrigins: deps.CORSOrigins,
	}

	s.chat.RegisterRoutes(mux)
	s.tribal.RegisterRoutes(mux)
	s.analytics.RegisterRoutes(mux)
	s.sessions.RegisterRoutes(mux)
	s.health.RegisterRoutes(mux)

	return s
}

// Handler returns the mux with middleware applied.
// Order: recovery, CORS, request ID, logging, handler.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		recoveryMiddleware(s.logger),
	}
	if len(s.corsOrigins) > 0 {
		middlewares = append(middlewares, corsMiddleware(s.corsOrigins))
	}
	middlewares = append(middlewares,
		requestIDMiddleware,
		loggingMiddleware(s.logger),
	)
	return chain(s.mux, middlewares...)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
