// Package chat runs the hosted-model conversation engine: grounded answers
// over the campaign knowledge index, and direct completion of pre-built
// prompts. All calls are rate limited and retried on transient failures.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/plazadigital/tribubot/internal/history"
)

// FallbackMessage is returned when the model produces an empty response.
const FallbackMessage = "Lo siento, no pude generar una respuesta. Por favor intenta reformular tu pregunta."

// Sentinel errors for engine operations.
var (
	// ErrEmptyQuery indicates the caller passed a blank query or prompt.
	ErrEmptyQuery = errors.New("empty query")

	// ErrGenerationFailed indicates the hosted model call failed after retries.
	ErrGenerationFailed = errors.New("generation failed")
)

// Retriever fetches documents relevant to a query from the knowledge index.
// Implemented by rag.Retriever.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*ai.Document, error)
}

// Config contains all parameters for the Engine.
type Config struct {
	Genkit    *genkit.Genkit
	Retriever Retriever
	Logger    *slog.Logger

	// ModelName is provider-qualified, e.g. "googleai/gemini-2.5-flash".
	ModelName   string
	Temperature float64
	MaxTokens   int

	// TopK documents retrieved for grounded answers.
	TopK int

	// Timeout bounds each Answer/Complete call end to end.
	Timeout time.Duration

	// Retry settings for transient model errors. The zero value disables
	// retries; MaxRetries > 0 with zero intervals fills in the defaults.
	Retry RetryConfig

	// Limiter throttles outbound model calls. Nil disables throttling.
	Limiter *rate.Limiter
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Retriever == nil {
		return errors.New("retriever is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// generateFunc matches genkit.Generate; swapped out in tests.
type generateFunc func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)

// Engine answers volunteer queries. Configuration is captured immutably at
// construction, so a single Engine is safe for concurrent use.
type Engine struct {
	genkit    *genkit.Genkit
	retriever Retriever
	logger    *slog.Logger

	modelName   string
	temperature float64
	maxTokens   int
	topK        int
	timeout     time.Duration

	retry   RetryConfig
	limiter *rate.Limiter

	generate generateFunc
}

// New creates an Engine from cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// Zero-value Retry means a single attempt. Retries are opt-in at the
	// composition root; a failed model call otherwise fails the request.
	retry := cfg.Retry
	if retry.MaxRetries > 0 && retry.InitialInterval == 0 {
		retry.InitialInterval = DefaultRetryConfig().InitialInterval
		retry.MaxInterval = DefaultRetryConfig().MaxInterval
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	e := &Engine{
		genkit:      cfg.Genkit,
		retriever:   cfg.Retriever,
		logger:      logger,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		topK:        topK,
		timeout:     timeout,
		retry:       retry,
		limiter:     cfg.Limiter,
	}
	e.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return genkit.Generate(ctx, e.genkit, opts...)
	}
	return e, nil
}

// Answer responds to a general campaign question. The query is grounded on
// the topK most similar documents from the knowledge index; prior turns are
// replayed as conversational context.
func (e *Engine) Answer(ctx context.Context, query string, turns []history.Turn) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.retriever.Retrieve(ctx, query, e.topK)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	e.logger.Debug("retrieved context", "documents", len(docs), "query_length", len(query))

	return e.complete(ctx, renderQAPrompt(docs, query), turns)
}

// Complete sends a pre-built prompt to the model, replaying prior turns as
// context. Used for the referral-link and analytics prompt paths where the
// prompt already carries all necessary data.
func (e *Engine) Complete(ctx context.Context, prompt string, turns []history.Turn) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.complete(ctx, prompt, turns)
}

func (e *Engine) complete(ctx context.Context, prompt string, turns []history.Turn) (string, error) {
	messages := toMessages(turns)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(prompt)))

	resp, err := e.generateWithRetry(ctx, []ai.GenerateOption{
		ai.WithModelName(e.modelName),
		ai.WithMessages(messages...),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(e.temperature)),
			MaxOutputTokens: int32(e.maxTokens),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		e.logger.Warn("model returned empty response")
		return FallbackMessage, nil
	}
	return text, nil
}

// toMessages maps stored history turns onto model message roles.
func toMessages(turns []history.Turn) []*ai.Message {
	messages := make([]*ai.Message, 0, len(turns)+1)
	for _, turn := range turns {
		switch turn.Role {
		case history.RoleSystem:
			messages = append(messages, ai.NewSystemMessage(ai.NewTextPart(turn.Content)))
		case history.RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(turn.Content)))
		default:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(turn.Content)))
		}
	}
	return messages
}
