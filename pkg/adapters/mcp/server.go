package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// CatalogURI is the resource exposing the question catalog.
const CatalogURI = "quoteagent://catalog"

// Agent is the part of the quote agent exposed as MCP tools.
type Agent interface {
	Send(ctx context.Context, sessionID, text string, tc map[string]any) (*domain.TurnResult, error)
	Reset(ctx context.Context, sessionID string) error
	Catalog() *catalog.Catalog
}

// TurnResponse is the structured result of process_turn.
type TurnResponse struct {
	Messages    []domain.Message `json:"messages" jsonschema_description:"Full transcript of the session"`
	Stage       string           `json:"stage" jsonschema_description:"chat or review_summary"`
	Summary     *domain.Summary  `json:"summary,omitempty" jsonschema_description:"Structured summary once the session is in review"`
	CurrentNode string           `json:"currentNode" jsonschema_description:"Node awaiting an answer"`
}

type processTurnArgs struct {
	SessionID          string `mapstructure:"session_id"`
	Message            string `mapstructure:"message"`
	PreselectedService string `mapstructure:"preselected_service"`
}

type resetArgs struct {
	SessionID string `mapstructure:"session_id"`
}

// Server exposes an Agent as an MCP server.
type Server struct {
	agent     Agent
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(agent Agent, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		agent:     agent,
		mcpServer: server.NewMCPServer("quoteagent-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over server-sent events on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	turnTool := mcp.NewTool("process_turn",
		mcp.WithDescription("Send the customer's next message to a quote intake session and return the updated transcript."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier; a new session starts on first use")),
		mcp.WithString("message", mcp.Description("The customer's answer (omit to fetch the current question)")),
		mcp.WithString("preselected_service", mcp.Description("Service chosen before the chat started (first call only)")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleProcessTurn))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Discard a quote intake session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), s.handleReset)
}

func (s *Server) handleProcessTurn(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	var in processTurnArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return TurnResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var tc map[string]any
	if in.PreselectedService != "" {
		tc = map[string]any{domain.ContextPreselectedService: in.PreselectedService}
	}

	res, err := s.agent.Send(ctx, in.SessionID, in.Message, tc)
	if err != nil {
		s.logger.Warn("process_turn failed", "session_id", in.SessionID, "err", err)
		return TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}
	return TurnResponse{
		Messages:    res.Messages,
		Stage:       res.Stage,
		Summary:     res.Summary,
		CurrentNode: res.CurrentNode,
	}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in resetArgs
	if err := mapstructure.Decode(request.GetArguments(), &in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if in.SessionID == "" {
		return mcp.NewToolResultError(domain.ErrMissingSessionID.Error()), nil
	}
	if err := s.agent.Reset(ctx, in.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s reset", in.SessionID)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Question Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := catalogJSON(s.agent.Catalog())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func catalogJSON(c *catalog.Catalog) (string, error) {
	data, err := json.Marshal(struct {
		Start string        `json:"start"`
		Nodes []domain.Node `json:"nodes"`
	}{c.Start, c.Nodes()})
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return string(data), nil
}
