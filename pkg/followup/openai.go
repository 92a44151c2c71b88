package followup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

// Config selects the OpenAI-compatible completion service.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewOpenAI builds a generator backed by an OpenAI-compatible chat model.
// Without an API key it returns Nop, so intake proceeds straight to the summary.
func NewOpenAI(ctx context.Context, cfg Config, logger *slog.Logger) (ports.FollowUpGenerator, error) {
	if cfg.APIKey == "" {
		if logger != nil {
			logger.Warn("OPENAI_API_KEY not set, follow-up questions disabled")
		}
		return Nop{}, nil
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init chat model: %w", err)
	}

	opts := []Option{WithMaxTokens(cfg.MaxTokens)}
	if cfg.Temperature > 0 {
		opts = append(opts, WithTemperature(cfg.Temperature))
	}
	return New(cm, opts...), nil
}

// Nop never asks follow-up questions.
type Nop struct{}

// Generate returns no questions.
func (Nop) Generate(context.Context, domain.FollowUpRequest) ([]string, error) {
	return nil, nil
}
