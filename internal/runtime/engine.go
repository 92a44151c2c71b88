package runtime

import (
	"context"
	"log/slog"

	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// ReviewNotice is the reply to any message received once the summary is shown.
const ReviewNotice = "Your request is ready. Please review the summary above and submit it when you're ready."

// Engine is the dialogue state machine. It is stateless: every call receives
// the session to mutate, and callers serialize calls per session.
type Engine struct {
	catalog   *catalog.Catalog
	generator ports.FollowUpGenerator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithFollowUpGenerator sets the generator consulted once the script is exhausted.
func WithFollowUpGenerator(gen ports.FollowUpGenerator) EngineOption {
	return func(e *Engine) {
		e.generator = gen
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over a validated catalog.
func NewEngine(cat *catalog.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine walks.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start asks the first question of a fresh session.
func (e *Engine) Start(ctx context.Context, s *domain.Session) {
	e.enter(ctx, s, e.catalog.Start)
}
