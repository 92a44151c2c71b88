package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// Commands understood by the chat loop in addition to plain answers.
const (
	CommandExit  = "exit"
	CommandQuit  = "quit"
	CommandReset = "/reset"
)

// TurnProcessor applies a full message history to a session.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error)
}

// Resetter discards a session. Processors that implement it enable /reset.
type Resetter interface {
	Reset(ctx context.Context, sessionID string) error
}

// Runner drives an interactive terminal conversation. Like a browser client,
// it resends the whole history on every turn.
type Runner struct {
	Handler   *TextHandler
	Logger    *slog.Logger
	SessionID string
	// Context is sent with every turn (e.g. a preselected service).
	Context map[string]any
}

// Option configures a Runner.
type Option func(*Runner)

// WithInputHandler configures the text handler.
func WithInputHandler(h *TextHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithSessionID sets the session to drive.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithTurnContext sets the context map sent with every turn.
func WithTurnContext(tc map[string]any) Option {
	return func(r *Runner) {
		r.Context = tc
	}
}

// NewRunner creates a Runner on stdio.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run loops until input ends, the user exits or ctx is cancelled.
// Interrupts end the loop cleanly; the session stays in the store.
func (r *Runner) Run(ctx context.Context, agent TurnProcessor) error {
	if r.SessionID == "" {
		return domain.ErrMissingSessionID
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	var (
		history []domain.TurnMessage
		shown   int
	)

	turn := func(ctx context.Context) (*domain.TurnResult, error) {
		res, err := agent.ProcessTurn(ctx, domain.TurnRequest{
			SessionID: r.SessionID,
			Messages:  history,
			Context:   r.Context,
		})
		if err != nil {
			return nil, fmt.Errorf("turn failed: %w", err)
		}
		if shown > len(res.Messages) {
			shown = 0
		}
		if err := r.Handler.Output(ctx, res.Messages[shown:]); err != nil {
			return nil, fmt.Errorf("output error: %w", err)
		}
		shown = len(res.Messages)
		return res, nil
	}

	res, err := turn(signals.Context())
	if err != nil {
		return err
	}

	for {
		input, err := r.Handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			if signals.Context().Err() != nil {
				r.Logger.Debug("chat interrupted", "session_id", r.SessionID)
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch input {
		case "":
			continue
		case CommandExit, CommandQuit:
			return nil
		case CommandReset:
			resetter, ok := agent.(Resetter)
			if !ok {
				r.Handler.SystemOutput("reset is not supported here")
				continue
			}
			if err := resetter.Reset(signals.Context(), r.SessionID); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			history, shown = nil, 0
			r.Handler.SystemOutput("session reset")
			if res, err = turn(signals.Context()); err != nil {
				return err
			}
			continue
		}

		if last := lastQuestion(res.Messages); last != nil {
			input = resolveOption(input, last.Options)
		}
		history = append(history, domain.TurnMessage{Role: domain.RoleUser, Text: input})

		if res, err = turn(signals.Context()); err != nil {
			return err
		}
		if res.Stage == domain.StageReview {
			r.Logger.Debug("review reached", "session_id", r.SessionID)
		}
	}
}

func lastQuestion(msgs []domain.Message) *domain.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleAssistant && msgs[i].Type == domain.MessageQuestion {
			return &msgs[i]
		}
		if msgs[i].Role == domain.RoleUser {
			return nil
		}
	}
	return nil
}
