// Package observability wires OTLP trace export into Genkit's tracer provider.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for trace export. An empty Endpoint disables export entirely.
type Config struct {
	// Endpoint is an OTLP HTTP collector address, e.g. "localhost:4318".
	Endpoint    string
	ServiceName string
	Environment string
}

// SetupTracing registers an OTLP span processor on Genkit's TracerProvider
// and returns a shutdown function. Must run before genkit.Init so the
// provider is ready when flows start.
//
// Failure to reach the collector only disables tracing; the service still
// starts.
func SetupTracing(ctx context.Context, cfg Config, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		logger.Debug("tracing disabled, no OTLP endpoint configured")
		return func() {}
	}

	// Genkit's TracerProvider reads service identity from the OTEL env vars.
	// Called once during startup, before any goroutines are spawned.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("creating OTLP exporter, tracing disabled", "error", err)
		return func() {}
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	shutdown := tracing.TracerProvider().Shutdown
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}
