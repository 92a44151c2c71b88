package quoteagent

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/internal/runtime"
	"github.com/richfrem/quoteagent/pkg/adapters/memory"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/observability"
	"github.com/richfrem/quoteagent/pkg/ports"
	"github.com/richfrem/quoteagent/pkg/runner"
	"github.com/richfrem/quoteagent/pkg/session"
)

//go:embed catalog/quote-agent.yaml
var defaultCatalog []byte

// InvalidInputNotice is the reply to a message rejected by input sanitization.
const InvalidInputNotice = "Sorry, that message could not be processed. Please try a shorter answer."

// Re-exported turn types.
type (
	TurnRequest = domain.TurnRequest
	TurnResult  = domain.TurnResult
	Message     = domain.TurnMessage
)

// TurnContext is the typed view of TurnRequest.Context.
type TurnContext struct {
	PreselectedService string `mapstructure:"preselectedService"`
}

// DecodeTurnContext decodes the loosely typed request context.
// Unknown keys are ignored.
func DecodeTurnContext(raw map[string]any) (TurnContext, error) {
	var tc TurnContext
	if len(raw) == 0 {
		return tc, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &tc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return tc, fmt.Errorf("%w: %w", domain.ErrInvalidContext, err)
	}
	if err := dec.Decode(raw); err != nil {
		return tc, fmt.Errorf("%w: %w", domain.ErrInvalidContext, err)
	}
	return tc, nil
}

// DefaultCatalog parses the built-in plumbing catalog.
func DefaultCatalog() (*catalog.Catalog, error) {
	return catalog.Parse(defaultCatalog)
}

// Agent is the entry point of the library. It owns the engine, the session
// manager and the submission path, and is safe for concurrent use.
type Agent struct {
	engine      *runtime.Engine
	catalog     *catalog.Catalog
	sessions    *session.Manager
	submissions ports.SubmissionRepository
	metrics     *observability.Metrics
	logger      *slog.Logger

	store     ports.SessionStore
	locker    ports.DistributedLocker
	generator ports.FollowUpGenerator
	hooks     domain.LifecycleHooks
}

// Option configures an Agent.
type Option func(*Agent)

// WithCatalog uses an already loaded catalog instead of reading one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Agent) {
		a.catalog = c
	}
}

// WithStore sets the session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(a *Agent) {
		a.store = store
	}
}

// WithLocker enables distributed per-session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Agent) {
		a.locker = locker
	}
}

// WithFollowUpGenerator sets the generator consulted after the script.
func WithFollowUpGenerator(gen ports.FollowUpGenerator) Option {
	return func(a *Agent) {
		a.generator = gen
	}
}

// WithSubmissionRepository sets where reviewed intakes are persisted
// (default: in-memory).
func WithSubmissionRepository(repo ports.SubmissionRepository) Option {
	return func(a *Agent) {
		a.submissions = repo
	}
}

// WithMetrics records turns, sweeps, submissions and engine events.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Agent) {
		a.metrics = m
	}
}

// WithLifecycleHooks registers additional engine callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates an Agent. The catalog is read from catalogPath unless
// WithCatalog is given; an empty path selects the built-in catalog.
func New(catalogPath string, opts ...Option) (*Agent, error) {
	a := &Agent{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	if a.catalog == nil {
		var err error
		if catalogPath == "" {
			a.catalog, err = DefaultCatalog()
		} else {
			a.catalog, err = catalog.Load(catalogPath)
		}
		if err != nil {
			return nil, err
		}
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.submissions == nil {
		a.submissions = memory.NewSubmissionRepository()
	}

	hooks := a.hooks
	if a.metrics != nil {
		hooks = a.metrics.Hooks().Merge(hooks)
	}
	engineOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(a.logger),
	}
	if a.generator != nil {
		engineOpts = append(engineOpts, runtime.WithFollowUpGenerator(a.generator))
	}
	a.engine = runtime.NewEngine(a.catalog, engineOpts...)

	managerOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(a.locker))
	}
	a.sessions = session.NewManager(a.store, managerOpts...)

	return a, nil
}

// Catalog returns the loaded catalog.
func (a *Agent) Catalog() *catalog.Catalog {
	return a.catalog
}

// Metrics returns the configured metrics, or nil.
func (a *Agent) Metrics() *observability.Metrics {
	return a.metrics
}

// Sessions returns the session manager.
func (a *Agent) Sessions() *session.Manager {
	return a.sessions
}

// ProcessTurn applies the unprocessed suffix of the user messages in req and
// returns the projected session. Resending the same history is a no-op.
//
// Each non-empty message normally records exactly one answer. A message the
// input sanitizer rejects (too large, invalid UTF-8, control characters) is
// the exception: it still counts as processed, so a resend will not apply it
// again, but it records no answer and adds InvalidInputNotice to the
// transcript instead.
func (a *Agent) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	return a.turn(ctx, req.SessionID, req.Context, func(s *domain.Session) []string {
		users := req.UserMessages()
		if s.ProcessedMessageCount >= len(users) {
			return nil
		}
		return users[s.ProcessedMessageCount:]
	})
}

// Send applies a single new user message, for transports that do not keep
// the history themselves. A blank text only fetches the session.
func (a *Agent) Send(ctx context.Context, sessionID, text string, tc map[string]any) (*TurnResult, error) {
	return a.turn(ctx, sessionID, tc, func(*domain.Session) []string {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	})
}

func (a *Agent) turn(ctx context.Context, sessionID string, rawContext map[string]any, pending func(*domain.Session) []string) (res *TurnResult, err error) {
	start := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.ObserveTurn(time.Since(start), err)
		}
	}()

	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}
	tc, err := DecodeTurnContext(rawContext)
	if err != nil {
		return nil, err
	}

	created := false
	seed := func(ctx context.Context, s *domain.Session) {
		created = true
		if tc.PreselectedService != "" {
			s.Captured[a.catalog.ServiceKey] = tc.PreselectedService
		}
		a.engine.Start(ctx, s)
	}

	var before *domain.Session
	s, err := a.sessions.Update(ctx, sessionID, seed, func(ctx context.Context, s *domain.Session) error {
		if !created {
			before = s.Clone()
		}
		for _, text := range pending(s) {
			a.apply(ctx, s, text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = domain.Project(s)
	res.Diff = diff(before, s)
	return res, nil
}

// apply advances the session by one user message and moves the replay cursor.
func (a *Agent) apply(ctx context.Context, s *domain.Session, text string) {
	s.ProcessedMessageCount++
	clean, err := runner.SanitizeInput(text)
	if err != nil {
		a.logger.Warn("rejected user message", "session_id", s.ID, "err", err)
		s.Say(domain.Message{Type: domain.MessageNotice, Text: InvalidInputNotice})
		return
	}
	a.engine.Advance(ctx, s, clean)
}

func diff(before, after *domain.Session) *domain.SessionDiff {
	d := domain.Diff(before, after)
	if d == nil && before == nil {
		return nil
	}

	var oldCaptured map[string]string
	if before != nil {
		oldCaptured = before.Captured
	}
	patch, err := capturedPatch(oldCaptured, after.Captured)
	if err != nil || len(patch) == 0 {
		return d
	}
	if d == nil {
		d = &domain.SessionDiff{SessionID: after.ID}
	}
	d.CapturedPatch = patch
	return d
}

// capturedPatch returns a JSON merge patch from old to next, or nil when
// they are equal.
func capturedPatch(old, next map[string]string) (json.RawMessage, error) {
	if old == nil {
		old = map[string]string{}
	}
	oldJSON, err := json.Marshal(old)
	if err != nil {
		return nil, err
	}
	nextJSON, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(oldJSON, nextJSON)
	if err != nil {
		return nil, err
	}
	if string(patch) == "{}" {
		return nil, nil
	}
	return patch, nil
}

// Session returns a snapshot of the stored session.
func (a *Agent) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return a.sessions.Load(ctx, sessionID)
}

// SessionIDs lists stored session ids.
func (a *Agent) SessionIDs(ctx context.Context) ([]string, error) {
	return a.sessions.List(ctx)
}

// Reset discards all progress of the session.
func (a *Agent) Reset(ctx context.Context, sessionID string) error {
	return a.sessions.Reset(ctx, sessionID)
}

// Submit persists a reviewed session and removes it from the store.
func (a *Agent) Submit(ctx context.Context, sessionID string, identity domain.Identity) (sub *domain.Submission, err error) {
	defer func() {
		if a.metrics != nil {
			a.metrics.ObserveSubmission(err)
		}
	}()

	err = a.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := a.sessions.Store().Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if !s.InReview() || s.Summary == nil {
			return domain.ErrNotReadyForSubmission
		}

		sub = domain.NewSubmission(s.ID, identity.UserID, *s.Summary)
		if err := a.submissions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to persist submission: %w", err)
		}
		if err := a.sessions.Store().Delete(ctx, sessionID); err != nil {
			a.logger.Warn("submitted session was not removed", "session_id", sessionID, "err", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("submission created", "session_id", sessionID, "submission_id", sub.ID, "service", sub.ServiceKey)
	return sub, nil
}

// Sweep removes sessions idle for longer than maxAge.
func (a *Agent) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	removed, err := a.sessions.Sweep(ctx, maxAge)
	if a.metrics != nil && removed > 0 {
		a.metrics.ObserveSweep(removed)
	}
	return removed, err
}

// StartSweeper sweeps every interval until ctx is cancelled. The returned
// channel is closed once the sweeper has stopped.
func (a *Agent) StartSweeper(ctx context.Context, interval, maxAge time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := a.Sweep(ctx, maxAge); err != nil && ctx.Err() == nil {
					a.logger.Error("session sweep failed", "err", err)
				}
			}
		}
	}()
	return done
}
