package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/richfrem/quoteagent"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	agent, err := quoteagent.New("")
	require.NoError(t, err)
	return NewServer(agent, "test", nil)
}

func callArgs(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestProcessTurn(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleProcessTurn(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "m1"})
	require.NoError(t, err)
	assert.Equal(t, "emergency", res.CurrentNode)
	require.Len(t, res.Messages, 1)

	for _, msg := range []string{"No", "Residential"} {
		res, err = s.handleProcessTurn(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "m1", "message": msg})
		require.NoError(t, err)
	}
	assert.Equal(t, "service", res.CurrentNode)
	assert.Equal(t, domain.StageChat, res.Stage)
}

func TestProcessTurn_PreselectedService(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	args := map[string]interface{}{"session_id": "m1", "preselected_service": "Leak Repair"}
	_, err := s.handleProcessTurn(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)

	var res TurnResponse
	for _, msg := range []string{"Yes", "Commercial"} {
		res, err = s.handleProcessTurn(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "m1", "message": msg})
		require.NoError(t, err)
	}
	assert.Equal(t, "service_details", res.CurrentNode)
	assert.Equal(t, "Where is the leak located?", res.Messages[len(res.Messages)-1].Text)
}

func TestProcessTurn_MissingSession(t *testing.T) {
	s := newServer(t)
	_, err := s.handleProcessTurn(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"message": "No"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)
}

func TestResetSession(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleProcessTurn(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "m1", "message": "No"})
	require.NoError(t, err)

	result, err := s.handleReset(ctx, callArgs(map[string]any{"session_id": "m1"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = s.handleReset(ctx, callArgs(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	res, err := s.handleProcessTurn(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "m1"})
	require.NoError(t, err)
	assert.Equal(t, "emergency", res.CurrentNode)
}

func TestCatalogJSON(t *testing.T) {
	c, err := quoteagent.DefaultCatalog()
	require.NoError(t, err)

	text, err := catalogJSON(c)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, `{"start":"emergency","nodes":[`))
	assert.Contains(t, text, `"id":"service_details"`)
}
