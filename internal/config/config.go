// Package config provides application configuration with multi-source priority.
//
// Sources, highest to lowest:
//  1. Environment variables
//  2. Config file (~/.tribubot/config.yaml, or ./config.yaml)
//  3. Defaults
//
// Configuration is validated immediately after loading (fail-fast): a process
// with a broken config refuses to start rather than serve degraded.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Sentinel errors for validation failures; wrap with fmt.Errorf("%w: ...").
var (
	ErrMissingAPIKey        = errors.New("missing API key")
	ErrInvalidModelName     = errors.New("invalid model name")
	ErrInvalidTemperature   = errors.New("invalid temperature")
	ErrInvalidMaxTokens     = errors.New("invalid max tokens")
	ErrInvalidTimeout       = errors.New("invalid request timeout")
	ErrInvalidMaxRetries    = errors.New("invalid max retries")
	ErrInvalidTopK          = errors.New("invalid retrieval top-k")
	ErrInvalidPostgresHost  = errors.New("invalid PostgreSQL host")
	ErrInvalidPostgresPort  = errors.New("invalid PostgreSQL port")
	ErrInvalidPostgresDB    = errors.New("invalid PostgreSQL database name")
	ErrInvalidHistoryTurns  = errors.New("invalid max history turns")
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")
)

// Defaults for the hosted model call. Temperature is moderate for consistent
// answers; tokens are capped to keep responses short and fast.
const (
	DefaultModelName      = "gemini-2.5-flash"
	DefaultEmbedderModel  = "gemini-embedding-001"
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 500
	DefaultTimeoutSeconds = 30
	DefaultTopK           = 3

	// DefaultMaxHistoryTurns bounds per-session history growth.
	// 0 would mean unbounded, which is unsafe for a long-lived process.
	DefaultMaxHistoryTurns = 100
)

// Config stores application configuration.
type Config struct {
	// Model configuration
	ModelName     string  `mapstructure:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`

	// RequestTimeoutSeconds bounds each hosted-model call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`

	// MaxRetries for transient model errors. 0 disables retries and a
	// failed call fails the whole request.
	MaxRetries int `mapstructure:"max_retries"`

	// Retrieval configuration
	TopK int `mapstructure:"top_k"`

	// Conversation history
	MaxHistoryTurns int `mapstructure:"max_history_turns"`

	// HTTP server
	Addr string `mapstructure:"addr"`

	// CORSOrigins lists origins allowed to call the API; "*" allows any.
	// The chat widget is served from the campaign site, a different host.
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Storage configuration (document index)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Tracing (optional; empty endpoint disables export)
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
	Environment  string `mapstructure:"environment"`
}

// Load loads configuration from environment, config file, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".tribubot"))
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults plus env cover a fresh install.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL wins over individual postgres_* settings.
	if err := cfg.applyDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("request_timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("max_retries", 0)
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("max_history_turns", DefaultMaxHistoryTurns)

	v.SetDefault("addr", "127.0.0.1:8000")
	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "tribubot")
	v.SetDefault("postgres_password", "tribubot_dev_password")
	v.SetDefault("postgres_db_name", "tribubot")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("service_name", "tribubot")
	v.SetDefault("environment", "dev")
}

// bindEnvVariables binds runtime overrides explicitly. GEMINI_API_KEY is read
// by the Genkit plugin itself; Validate only checks its presence.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: binding %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "TRIBUBOT_MODEL_NAME")
	mustBind("embedder_model", "TRIBUBOT_EMBEDDER_MODEL")
	mustBind("temperature", "TRIBUBOT_TEMPERATURE")
	mustBind("max_tokens", "TRIBUBOT_MAX_TOKENS")
	mustBind("request_timeout_seconds", "TRIBUBOT_REQUEST_TIMEOUT")
	mustBind("max_retries", "TRIBUBOT_MAX_RETRIES")
	mustBind("addr", "TRIBUBOT_ADDR")
	mustBind("otlp_endpoint", "TRIBUBOT_OTLP_ENDPOINT")
	mustBind("environment", "TRIBUBOT_ENVIRONMENT")
}

// applyDatabaseURL overrides the postgres_* fields from a postgres:// URL.
// Empty input leaves the config untouched.
func (c *Config) applyDatabaseURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if h := u.Hostname(); h != "" {
		c.PostgresHost = h
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid port %q", p)
		}
		c.PostgresPort = port
	}
	if u.User != nil {
		c.PostgresUser = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.PostgresPassword = pw
		}
	}
	if db := filepath.Base(u.Path); db != "." && db != "/" && db != "" {
		c.PostgresDBName = db
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.PostgresSSLMode = mode
	}
	return nil
}

// PostgresURL returns the postgres:// URL form of the storage config.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDBName,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}
