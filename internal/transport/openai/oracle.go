// Package openai adapts an OpenAI-compatible chat-completion API as the
// out-of-domain query oracle.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tilemart/tilequery/internal/domain"
	"github.com/tilemart/tilequery/internal/metrics"
)

// Oracle is a text-completion collaborator backed by an OpenAI-compatible API.
type Oracle struct {
	client      *openai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// Config holds the oracle provider settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	RequestsPerMin int
	Logger         *zap.Logger
}

// NewOracle creates a chat-completion oracle.
func NewOracle(cfg *Config) *Oracle {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}

	return &Oracle{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		logger:      cfg.Logger,
	}
}

// Ask sends the prompt with the given system instruction and returns the
// completion text. All failures are wrapped in domain.ErrOracleUnavailable.
func (o *Oracle) Ask(ctx context.Context, prompt, instruction string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %w", domain.ErrOracleUnavailable, err)
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues(o.model, "error").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		metrics.OracleRequestsTotal.WithLabelValues(o.model, "error").Inc()
		return "", fmt.Errorf("%w: empty completion response", domain.ErrOracleUnavailable)
	}

	metrics.OracleRequestsTotal.WithLabelValues(o.model, "success").Inc()
	metrics.OracleRequestDuration.WithLabelValues(o.model).Observe(duration.Seconds())
	o.logger.Debug("Oracle completion",
		zap.String("model", o.model),
		zap.Duration("duration", duration),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (o *Oracle) HealthCheck(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
