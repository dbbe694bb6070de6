package anthropic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/metrics"
)

const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.5

	providerName = "anthropic"
)

// Generator produces grounded answers via the Anthropic Messages API.
type Generator struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
}

// Config holds the generation provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewGenerator creates an Anthropic generation provider.
func NewGenerator(cfg *Config) *Generator {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}

	return &Generator{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Generate implements rag.Generator with transport-level metrics.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	temperature := g.temperature
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(g.model),
		System:      system,
		MaxTokens:   g.maxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
	}

	start := time.Now()

	resp, err := g.client.CreateMessages(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "error").Inc()
		return "", fmt.Errorf("empty message response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(providerName, g.model).Observe(duration.Seconds())
	metrics.GenerationTokensTotal.WithLabelValues(providerName, g.model, "prompt").Add(float64(resp.Usage.InputTokens))
	metrics.GenerationTokensTotal.WithLabelValues(providerName, g.model, "completion").Add(float64(resp.Usage.OutputTokens))

	return *resp.Content[0].Text, nil
}

// parseAPIError wraps API failures with domain.ErrGenerationProviderError
// for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationProviderError

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %s: %s: %w",
			apiErr.Type, apiErr.Message, wrap)
	}

	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("generation API request failed with status %d: %w",
			reqErr.StatusCode, wrap)
	}

	return fmt.Errorf("generation request failed: %w", wrap)
}
