// Package external provides the anti-corruption layer between SymptomLog
// domain logic and third-party vendor APIs. Outbound calls are wrapped in a
// circuit breaker and their failures mapped to domain error codes so the rest
// of the application never sees vendor-specific errors.
package external

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"

	"symptomlog/internal/config"
	"symptomlog/internal/types"
)

// systemInstruction frames every report generation request. The prompt built
// by the reports package carries the actual symptom data.
const systemInstruction = "You are a medical data analyst assistant. You analyze " +
	"personal symptom logs and produce clear, structured summaries. You never " +
	"diagnose conditions or recommend treatments; you describe patterns in the " +
	"data and suggest topics the user may want to discuss with a clinician."

// OpenRouterClient generates report text through the OpenRouter chat
// completion API (OpenAI-compatible wire format).
//
// A single attempt is made per call: on failure the typed error is returned
// to the caller unchanged, with no retry and no fallback content. The circuit
// breaker sheds load during sustained upstream outages by failing fast.
type OpenRouterClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger

	configured bool
}

// NewOpenRouterClient creates a client from the AI configuration. A missing
// API key does not fail construction; calls on an unconfigured client return
// a misconfiguration error before any network activity.
func NewOpenRouterClient(cfg config.AIConfig, logger *slog.Logger) *OpenRouterClient {
	if logger == nil {
		logger = slog.Default()
	}

	apiKey := cfg.APIKey.Reveal()

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "openrouter",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &OpenRouterClient{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		timeout:    cfg.RequestTimeout,
		breaker:    breaker,
		logger:     logger,
		configured: apiKey != "",
	}
}

// Generate sends the prompt as a single chat completion request and returns
// the generated text. The entire call is bounded by the configured timeout.
//
// Failures map to typed errors:
//   - missing API key: internal_ai_misconfigured (no request is made)
//   - deadline exceeded: upstream_ai_timeout
//   - upstream 429 or 503, or open breaker: upstream_ai_unavailable
//   - empty or whitespace-only completion: upstream_ai_empty_response
//   - anything else: upstream_ai_generation_failed
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.configured {
		return "", types.NewAppError(
			types.ErrCodeAIMisconfigured,
			"text generation service is not configured",
			nil,
		)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	content, err := c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		c.logger.Warn("report generation call failed",
			"model", c.model,
			"duration", time.Since(start),
			"error", err,
		)
		return "", c.mapError(err)
	}

	c.logger.Info("report generation call succeeded",
		"model", c.model,
		"duration", time.Since(start),
	)
	return content, nil
}

// complete performs the raw chat completion request and validates that a
// non-empty completion came back.
func (c *OpenRouterClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errEmptyCompletion
	}

	return content, nil
}

// errEmptyCompletion marks a structurally successful response that carried no
// usable text.
var errEmptyCompletion = errors.New("completion contained no text")

// mapError translates transport and vendor failures into the domain error
// taxonomy. Classification order matters: breaker state and timeouts are
// checked before HTTP status codes.
func (c *OpenRouterClient) mapError(err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(
			types.ErrCodeUpstreamAIUnavailable,
			"text generation service is temporarily unavailable",
			err,
		)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewAppError(
			types.ErrCodeUpstreamAITimeout,
			"text generation timed out",
			err,
		)
	}

	if errors.Is(err, errEmptyCompletion) {
		return types.NewAppError(
			types.ErrCodeUpstreamAIEmpty,
			"text generation returned an empty response",
			err,
		)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return types.NewAppError(
				types.ErrCodeUpstreamAIUnavailable,
				"text generation service is temporarily unavailable",
				err,
			)
		}
	}

	return types.NewAppError(
		types.ErrCodeUpstreamAIFailed,
		"text generation failed",
		err,
	)
}
