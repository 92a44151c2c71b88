package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

// Agent is the part of the quote agent the HTTP API exposes.
type Agent interface {
	ProcessTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error)
	Reset(ctx context.Context, sessionID string) error
	Submit(ctx context.Context, sessionID string, identity domain.Identity) (*domain.Submission, error)
	Catalog() *catalog.Catalog
}

// Server implements ServerInterface on top of an Agent.
type Server struct {
	Agent   Agent
	Streams *StreamManager
	logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

type options struct {
	identity ports.IdentityProvider
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*options)

// WithIdentityProvider requires a verified bearer token on every route but
// /health, /metrics and the API docs.
// Without one the API runs anonymously.
func WithIdentityProvider(p ports.IdentityProvider) Option {
	return func(o *options) {
		o.identity = p
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *options) {
		o.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for agent.
func NewHandler(agent Agent, opts ...Option) (http.Handler, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	server := &Server{
		Agent:   agent,
		Streams: NewStreamManager(o.logger),
		logger:  o.logger,
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	validate, err := requestValidator(doc, server.writeError)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	if o.identity != nil {
		r.Use(authenticate(o.identity, o.logger, server.writeError))
	}
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			server.writeError(w, r, fmt.Errorf("failed to load spec: %w", err))
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if o.metrics != nil {
		r.Handle("/metrics", o.metrics)
	}

	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			server.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		},
	}), nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Quote Agent API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ProcessTurn handles POST /api/quote-agent/turn.
func (s *Server) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	var body domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid request body: %w", errBadRequest, err))
		return
	}

	res, err := s.Agent.ProcessTurn(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.Diff != nil {
		if payload, err := json.Marshal(res.Diff); err == nil {
			s.Streams.Broadcast(body.SessionID, payload)
		} else {
			s.logger.Warn("failed to encode session diff", "session_id", body.SessionID, "err", err)
		}
	}

	s.writeJSON(w, http.StatusOK, res)
}

// ResetSession handles POST /api/quote-agent/sessions/{sessionId}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.Agent.Reset(r.Context(), sessionID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitSession handles POST /api/quote-agent/sessions/{sessionId}/submit.
func (s *Server) SubmitSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	identity, _ := domain.IdentityFrom(r.Context())
	sub, err := s.Agent.Submit(r.Context(), sessionID, identity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sub)
}

type catalogResponse struct {
	Start string        `json:"start"`
	Nodes []domain.Node `json:"nodes"`
}

// GetCatalog handles GET /api/quote-agent/catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.Agent.Catalog()
	s.writeJSON(w, http.StatusOK, catalogResponse{Start: c.Start, Nodes: c.Nodes()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubscribeEvents handles GET /events (SSE). Each event carries the JSON diff
// of one turn of the session.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, fmt.Errorf("streaming not supported"))
		return
	}

	ch, cancel := s.Streams.Subscribe(params.SessionId)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Debug("sse subscribed", "session_id", params.SessionId)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected", "session_id", params.SessionId)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
