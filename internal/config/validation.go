package config

import (
	"fmt"
	"os"
)

// Validate checks the configuration for values that would break at runtime.
// Called by Load; safe to call again after manual mutation in tests.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v (want 0-2)", ErrInvalidTemperature, c.Temperature)
	}
	if c.MaxTokens < 1 || c.MaxTokens > 65536 {
		return fmt.Errorf("%w: %d (want 1-65536)", ErrInvalidMaxTokens, c.MaxTokens)
	}
	if c.RequestTimeoutSeconds < 1 || c.RequestTimeoutSeconds > 600 {
		return fmt.Errorf("%w: %ds (want 1-600)", ErrInvalidTimeout, c.RequestTimeoutSeconds)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: %d (want 0-10)", ErrInvalidMaxRetries, c.MaxRetries)
	}
	if c.TopK < 1 || c.TopK > 20 {
		return fmt.Errorf("%w: %d (want 1-20)", ErrInvalidTopK, c.TopK)
	}
	if c.MaxHistoryTurns < 0 {
		return fmt.Errorf("%w: %d (want >= 0)", ErrInvalidHistoryTurns, c.MaxHistoryTurns)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidPostgresDB)
	}
	return nil
}

// ValidateServe checks requirements that only matter when serving: the
// hosted-model credential must be present before we accept traffic.
func (c *Config) ValidateServe() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingAPIKey)
	}
	return nil
}
