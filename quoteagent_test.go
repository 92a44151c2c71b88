package quoteagent_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/richfrem/quoteagent"
	"github.com/richfrem/quoteagent/pkg/adapters/memory"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/observability"
	"github.com/richfrem/quoteagent/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(texts ...string) []quoteagent.Message {
	msgs := make([]quoteagent.Message, 0, len(texts))
	for _, t := range texts {
		msgs = append(msgs, quoteagent.Message{Role: domain.RoleUser, Text: t})
	}
	return msgs
}

func newAgent(t *testing.T, opts ...quoteagent.Option) *quoteagent.Agent {
	t.Helper()
	agent, err := quoteagent.New("", opts...)
	require.NoError(t, err)
	return agent
}

func TestAgent_FirstTurnAsksStartQuestion(t *testing.T) {
	agent := newAgent(t)

	res, err := agent.ProcessTurn(context.Background(), quoteagent.TurnRequest{SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StageChat, res.Stage)
	assert.Equal(t, "emergency", res.CurrentNode)
	assert.Nil(t, res.Summary)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, []string{"Yes", "No"}, res.Messages[0].Options)
	require.NotNil(t, res.Diff, "a new session diffs against nothing")
}

func TestAgent_MissingSessionID(t *testing.T) {
	agent := newAgent(t)
	_, err := agent.ProcessTurn(context.Background(), quoteagent.TurnRequest{Messages: user("No")})
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)

	ids, err := agent.SessionIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "no session is created without an id")
}

func TestAgent_ResendIsIdempotent(t *testing.T) {
	agent := newAgent(t)
	ctx := context.Background()
	req := quoteagent.TurnRequest{SessionID: "s1", Messages: user("No", "Residential")}

	first, err := agent.ProcessTurn(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "service", first.CurrentNode)

	second, err := agent.ProcessTurn(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Messages, second.Messages)
	assert.Nil(t, second.Diff)

	s, err := agent.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, s.Answers, 2)
	assert.Equal(t, 2, s.ProcessedMessageCount)
}

func TestAgent_AcceptsContentField(t *testing.T) {
	agent := newAgent(t)
	res, err := agent.ProcessTurn(context.Background(), quoteagent.TurnRequest{
		SessionID: "s1",
		Messages: []quoteagent.Message{
			{Role: domain.RoleAssistant, Text: "Is this an emergency?"},
			{Role: domain.RoleUser, Content: "Yes"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "property_type", res.CurrentNode)
}

func TestAgent_FullIntakeAndSubmit(t *testing.T) {
	repo := memory.NewSubmissionRepository()
	metrics := observability.NewMetrics(nil)
	agent := newAgent(t,
		quoteagent.WithSubmissionRepository(repo),
		quoteagent.WithMetrics(metrics),
	)
	ctx := context.Background()

	_, err := agent.Submit(ctx, "s1", domain.Identity{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	history := user("Yes", "Commercial", "Drain Cleaning")
	res, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: history})
	require.NoError(t, err)
	assert.Equal(t, "service_details", res.CurrentNode)

	_, err = agent.Submit(ctx, "s1", domain.Identity{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrNotReadyForSubmission)

	history = append(history, user("Kitchen sink", "Yes, a sewer smell")...)
	res, err = agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: history})
	require.NoError(t, err)
	require.Equal(t, domain.StageReview, res.Stage)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "drain_cleaning", res.Summary.Service.Key)
	assert.True(t, res.Summary.Emergency)
	assert.Len(t, res.Summary.Answers, 4)

	sub, err := agent.Submit(ctx, "s1", domain.Identity{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", sub.ID)
	assert.Equal(t, "u1", sub.UserID)
	assert.Equal(t, domain.SubmissionStatusNew, sub.Status)
	assert.Len(t, repo.All(), 1)

	_, err = agent.Session(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "submitted sessions are removed")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Reviews.WithLabelValues("drain_cleaning", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Turns.WithLabelValues("ok")))
}

func TestAgent_PreselectedServiceSkipsQuestion(t *testing.T) {
	agent := newAgent(t)
	ctx := context.Background()
	tc := map[string]any{domain.ContextPreselectedService: "Water Heater"}

	res, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{
		SessionID: "s1",
		Messages:  user("No", "Residential"),
		Context:   tc,
	})
	require.NoError(t, err)
	assert.Equal(t, "service_details", res.CurrentNode)
	assert.Contains(t, res.Messages[len(res.Messages)-1].Text, "tank or tankless")

	var captured map[string]string
	require.NotNil(t, res.Diff)
	require.NoError(t, json.Unmarshal(res.Diff.CapturedPatch, &captured))
	assert.Equal(t, "Water Heater", captured["service_type"])
}

func TestAgent_InvalidTurnContext(t *testing.T) {
	agent := newAgent(t)
	_, err := agent.ProcessTurn(context.Background(), quoteagent.TurnRequest{
		SessionID: "s1",
		Context:   map[string]any{domain.ContextPreselectedService: []string{"a", "b"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidContext)
}

func TestAgent_RejectedInputIsSkipped(t *testing.T) {
	t.Setenv("QUOTEAGENT_MAX_INPUT_SIZE", "16")
	agent := newAgent(t)

	res, err := agent.ProcessTurn(context.Background(), quoteagent.TurnRequest{
		SessionID: "s1",
		Messages:  user(strings.Repeat("x", 17), "No"),
	})
	require.NoError(t, err)
	assert.Equal(t, "property_type", res.CurrentNode)

	var notices int
	for _, m := range res.Messages {
		if m.Text == quoteagent.InvalidInputNotice {
			notices++
		}
	}
	assert.Equal(t, 1, notices)

	s, err := agent.Session(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.ProcessedMessageCount, "the rejected message is consumed")
	assert.Len(t, s.Answers, 1, "but records no answer")
}

func TestAgent_FollowUps(t *testing.T) {
	var calls int
	var mu sync.Mutex
	gen := ports.FollowUpFunc(func(_ context.Context, req domain.FollowUpRequest) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		assert.Equal(t, "Repiping", req.Service)
		return []string{"How many bathrooms?"}, nil
	})
	agent := newAgent(t, quoteagent.WithFollowUpGenerator(gen))
	ctx := context.Background()

	history := user("No", "Residential", "Repiping", "1978", "Galvanized")
	res, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: history})
	require.NoError(t, err)
	assert.Equal(t, domain.FollowUpStage, res.CurrentNode)
	assert.Equal(t, "How many bathrooms?", res.Messages[len(res.Messages)-1].Text)

	res, err = agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: append(history, user("Two")...)})
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, res.Stage)
	assert.Equal(t, 1, calls)
}

func TestAgent_Send(t *testing.T) {
	agent := newAgent(t)
	ctx := context.Background()

	_, err := agent.Send(ctx, "s1", "No", nil)
	require.NoError(t, err)
	res, err := agent.Send(ctx, "s1", "Residential", nil)
	require.NoError(t, err)
	assert.Equal(t, "service", res.CurrentNode)
}

func TestAgent_ConcurrentFirstTurn(t *testing.T) {
	agent := newAgent(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: user("No")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := agent.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, s.Answers, 1)
	assert.Equal(t, "property_type", s.CurrentNodeID)
}

func TestAgent_Reset(t *testing.T) {
	agent := newAgent(t)
	ctx := context.Background()

	_, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1", Messages: user("No")})
	require.NoError(t, err)
	require.NoError(t, agent.Reset(ctx, "s1"))

	res, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "emergency", res.CurrentNode)
}

func TestAgent_Sweeper(t *testing.T) {
	store := memory.NewStore()
	agent := newAgent(t, quoteagent.WithStore(store))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{SessionID: "idle"})
	require.NoError(t, err)

	done := agent.StartSweeper(ctx, 10*time.Millisecond, time.Nanosecond)
	assert.Eventually(t, func() bool {
		ids, err := store.List(context.Background())
		return err == nil && len(ids) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNew_CatalogErrors(t *testing.T) {
	_, err := quoteagent.New("testdata/missing.yaml")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read catalog"))

	c, err := quoteagent.DefaultCatalog()
	require.NoError(t, err)
	agent, err := quoteagent.New("ignored.yaml", quoteagent.WithCatalog(c))
	require.NoError(t, err)
	assert.Same(t, c, agent.Catalog())
}

func TestDecodeTurnContext(t *testing.T) {
	tc, err := quoteagent.DecodeTurnContext(map[string]any{
		"preselectedService": "Leak Repair",
		"source":             "landing-page",
	})
	require.NoError(t, err)
	assert.Equal(t, "Leak Repair", tc.PreselectedService)

	tc, err = quoteagent.DecodeTurnContext(nil)
	require.NoError(t, err)
	assert.Empty(t, tc.PreselectedService)
	assert.False(t, errors.Is(err, domain.ErrMissingSessionID))
}
