package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/richfrem/quoteagent/internal/runtime"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const intakeYAML = `
start: emergency
nodes:
  - id: emergency
    type: choice
    prompt: Is this an emergency?
    options: ["Yes", "No"]
    capture: is_emergency
    next: property_type
  - id: property_type
    type: choice
    prompt: Is the property residential or commercial?
    options: ["Residential", "Commercial"]
    next: service
  - id: service
    type: choice
    prompt: Which service do you need?
    options: ["Leak Repair", "Drain Cleaning", "Other"]
    capture: service_type
    next: details
  - id: details
    type: branch
    variable: service_type
    cases:
      leak_repair:
        - Where is the leak?
        - How long has it been leaking?
      drain_cleaning:
        - Which drain is blocked?
`

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(intakeYAML))
	require.NoError(t, err)
	return c
}

func staticFollowUps(questions ...string) ports.FollowUpFunc {
	return func(context.Context, domain.FollowUpRequest) ([]string, error) {
		return questions, nil
	}
}

func startSession(t *testing.T, e *runtime.Engine) *domain.Session {
	t.Helper()
	s := domain.NewSession("sess-1")
	e.Start(context.Background(), s)
	return s
}

func advanceAll(e *runtime.Engine, s *domain.Session, texts ...string) {
	for _, text := range texts {
		e.Advance(context.Background(), s, text)
	}
}

func lastMessage(s *domain.Session) domain.Message {
	return s.Transcript[len(s.Transcript)-1]
}

func TestEngine_Start(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)

	assert.Equal(t, "emergency", s.CurrentNodeID)
	require.Len(t, s.Transcript, 1)
	first := s.Transcript[0]
	assert.Equal(t, domain.RoleAssistant, first.Role)
	assert.Equal(t, "Is this an emergency?", first.Text)
	assert.Equal(t, domain.InputChoice, first.InputType)
	assert.Equal(t, []string{"Yes", "No"}, first.Options)
}

func TestEngine_StraightLineIntake(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t), runtime.WithFollowUpGenerator(staticFollowUps()))
	s := startSession(t, e)

	advanceAll(e, s, "No", "Residential", "Leak Repair")
	assert.Equal(t, "details", s.CurrentNodeID)
	assert.Equal(t, "Where is the leak?", lastMessage(s).Text)
	assert.Equal(t, domain.InputText, lastMessage(s).InputType)

	advanceAll(e, s, "Under the kitchen sink", "Two days")

	require.True(t, s.InReview())
	require.NotNil(t, s.Summary)
	assert.False(t, s.Summary.Emergency)
	assert.Equal(t, domain.ServiceRef{Label: "Leak Repair", Key: "leak_repair"}, s.Summary.Service)
	require.Len(t, s.Summary.Answers, 4)
	assert.Equal(t, domain.Answer{Question: "Is this an emergency?", Answer: "No"}, s.Summary.Answers[0])
	assert.Equal(t, domain.Answer{Question: "How long has it been leaking?", Answer: "Two days"}, s.Summary.Answers[3])

	assert.Len(t, s.Answers, 5)
	assert.Equal(t, "Under the kitchen sink", s.Captured["details_1"])
	assert.Equal(t, "Two days", s.Captured["details_2"])
	assert.True(t, s.FollowUpsRequested)
	assert.Nil(t, s.Branch)
	assert.Equal(t, domain.MessageSummary, lastMessage(s).Type)
	assert.Contains(t, lastMessage(s).Text, "- Service: Leak Repair")
}

func TestEngine_AnswersGrowOnePerMessage(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)

	for i, text := range []string{"Yes", "Commercial", "Leak Repair", "Basement"} {
		before := len(s.Answers)
		e.Advance(context.Background(), s, text)
		assert.Equal(t, before+1, len(s.Answers), "message %d", i)
	}
}

func TestEngine_EmptyMessageIsNoop(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)
	before := s.Clone()

	advanceAll(e, s, "", "   ", "\n\t")

	assert.Equal(t, before.CurrentNodeID, s.CurrentNodeID)
	assert.Equal(t, before.Transcript, s.Transcript)
	assert.Equal(t, before.Answers, s.Answers)
}

func TestEngine_BranchMissRecovery(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t), runtime.WithFollowUpGenerator(staticFollowUps("never asked?")))
	s := startSession(t, e)
	advanceAll(e, s, "No", "Residential", "Leak Repair")
	require.Equal(t, "details", s.CurrentNodeID)

	s.Captured["service_type"] = "Roof Inspection"
	answers := len(s.Answers)

	assert.NotPanics(t, func() { e.Advance(context.Background(), s, "On the roof") })

	assert.True(t, s.InReview())
	assert.Equal(t, answers, len(s.Answers), "branch miss records no answer")
	assert.False(t, s.FollowUpsRequested, "branch miss skips follow-ups")
	require.NotNil(t, s.Summary)
	assert.Equal(t, "roof_inspection", s.Summary.Service.Key)
}

func TestEngine_UnmappedServiceGoesToSummary(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)

	advanceAll(e, s, "Yes", "Residential", "Other")

	assert.True(t, s.InReview())
	require.NotNil(t, s.Summary)
	assert.True(t, s.Summary.Emergency)
	assert.Equal(t, "other", s.Summary.Service.Key)
	assert.Len(t, s.Summary.Answers, 2)
}

func TestEngine_FollowUpInjection(t *testing.T) {
	calls := 0
	gen := ports.FollowUpFunc(func(_ context.Context, req domain.FollowUpRequest) ([]string, error) {
		calls++
		assert.Equal(t, "Drain Cleaning", req.Service)
		assert.Len(t, req.Answers, 4)
		return []string{"  Is the blockage recurring?  ", "", "Any recent renovations?"}, nil
	})
	e := runtime.NewEngine(newCatalog(t), runtime.WithFollowUpGenerator(gen))
	s := startSession(t, e)

	advanceAll(e, s, "No", "Residential", "Drain Cleaning", "Kitchen")
	scripted := len(s.Answers)
	transcriptAt := len(s.Transcript)

	assert.Equal(t, domain.FollowUpStage, s.CurrentNodeID)
	assert.Equal(t, "Is the blockage recurring?", lastMessage(s).Text)

	e.Advance(context.Background(), s, "Yes, monthly")
	assert.Equal(t, "Any recent renovations?", lastMessage(s).Text)
	e.Advance(context.Background(), s, "No")

	assert.True(t, s.InReview())
	assert.Equal(t, scripted+2, len(s.Answers))
	assert.Equal(t, 1, calls)

	prompts := 0
	for _, m := range s.Transcript[transcriptAt-1:] {
		if m.Role == domain.RoleAssistant && m.Type == domain.MessageQuestion {
			prompts++
		}
	}
	assert.Equal(t, 2, prompts, "exactly two generated prompts before review")

	require.NotNil(t, s.Summary)
	assert.Equal(t, domain.Answer{Question: "Any recent renovations?", Answer: "No"}, s.Summary.Answers[len(s.Summary.Answers)-1])
	assert.Equal(t, "No", s.Captured["follow_up_2"])
}

func TestEngine_FollowUpsCapped(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t), runtime.WithFollowUpGenerator(staticFollowUps("q1", "q2", "q3", "q4", "q5")))
	s := startSession(t, e)
	advanceAll(e, s, "No", "Residential", "Drain Cleaning", "Kitchen")

	assert.Equal(t, []string{"q1", "q2", "q3"}, s.FollowUps.Questions)
	advanceAll(e, s, "a1", "a2", "a3")
	assert.True(t, s.InReview())
}

func TestEngine_FollowUpFailureIsNonFatal(t *testing.T) {
	calls := 0
	gen := ports.FollowUpFunc(func(context.Context, domain.FollowUpRequest) ([]string, error) {
		calls++
		return nil, errors.New("completion service unavailable")
	})
	e := runtime.NewEngine(newCatalog(t), runtime.WithFollowUpGenerator(gen))
	s := startSession(t, e)

	advanceAll(e, s, "No", "Residential", "Drain Cleaning", "Kitchen")

	assert.True(t, s.InReview())
	assert.True(t, s.FollowUpsRequested)
	assert.Equal(t, 1, calls)

	advanceAll(e, s, "hello?")
	assert.Equal(t, 1, calls, "generator is never re-invoked")
}

func TestEngine_StaleNodeID(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)
	advanceAll(e, s, "Yes")
	s.CurrentNodeID = "removed_node"

	assert.NotPanics(t, func() { e.Advance(context.Background(), s, "anything") })

	assert.True(t, s.InReview())
	require.NotNil(t, s.Summary)
	assert.True(t, s.Summary.Emergency)
	assert.Len(t, s.Answers, 1)
}

func TestEngine_ReviewIsTerminal(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := startSession(t, e)
	advanceAll(e, s, "No", "Residential", "Other")
	require.True(t, s.InReview())

	snapshot := s.Clone()
	advanceAll(e, s, "wait, one more thing", "Yes")

	assert.Equal(t, snapshot.Answers, s.Answers)
	assert.Equal(t, snapshot.Captured, s.Captured)
	assert.Equal(t, snapshot.Summary, s.Summary)
	assert.True(t, s.InReview())
	assert.Equal(t, domain.MessageNotice, lastMessage(s).Type)
	assert.Equal(t, runtime.ReviewNotice, lastMessage(s).Text)
}

func TestEngine_PreselectedServiceSkipsQuestion(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))
	s := domain.NewSession("sess-2")
	s.Captured["service_type"] = "Drain Cleaning"
	e.Start(context.Background(), s)

	advanceAll(e, s, "No", "Residential")

	assert.Equal(t, "details", s.CurrentNodeID)
	assert.Equal(t, "Which drain is blocked?", lastMessage(s).Text)
	for _, m := range s.Transcript {
		assert.NotEqual(t, "Which service do you need?", m.Text)
	}

	advanceAll(e, s, "Bathroom")
	require.True(t, s.InReview())
	assert.Equal(t, "drain_cleaning", s.Summary.Service.Key)
	assert.Len(t, s.Summary.Answers, 3)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered []string
	var reviews []*domain.ReviewEvent
	var followUps []*domain.FollowUpEvent

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) { entered = append(entered, ev.NodeID) },
		OnFollowUp:  func(_ context.Context, ev *domain.FollowUpEvent) { followUps = append(followUps, ev) },
		OnReview:    func(_ context.Context, ev *domain.ReviewEvent) { reviews = append(reviews, ev) },
	}
	e := runtime.NewEngine(newCatalog(t),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithFollowUpGenerator(staticFollowUps()),
	)
	s := startSession(t, e)
	advanceAll(e, s, "Yes", "Residential", "Drain Cleaning", "Kitchen")

	assert.Equal(t, []string{"emergency", "property_type", "service", "details"}, entered)
	require.Len(t, followUps, 1)
	assert.Equal(t, 0, followUps[0].Questions)
	require.Len(t, reviews, 1)
	assert.Equal(t, "drain_cleaning", reviews[0].Service)
	assert.True(t, reviews[0].Emergency)
	assert.Equal(t, "sess-1", reviews[0].SessionID)
}

func TestBuildSummary(t *testing.T) {
	e := runtime.NewEngine(newCatalog(t))

	t.Run("Emergency falls back to the first answer", func(t *testing.T) {
		s := domain.NewSession("s")
		s.Answers = append(s.Answers, domain.Answer{Question: "Urgent?", Answer: "yep"})

		sum := e.BuildSummary(s)
		assert.True(t, sum.Emergency)
		assert.Empty(t, sum.Service.Key)
	})

	t.Run("Idempotent", func(t *testing.T) {
		s := domain.NewSession("s")
		s.Record("Is this an emergency?", "no", "is_emergency")
		s.Record("Which service do you need?", "  Drains!!  ", "service_type")

		first := e.BuildSummary(s)
		second := e.BuildSummary(s)
		assert.Equal(t, first, second)
		assert.Equal(t, "drains", first.Service.Key)
		assert.Equal(t, "Drains!!", first.Service.Label)
		assert.False(t, first.Emergency)
		assert.Len(t, first.Answers, 1)
	})
}

func TestCleanFollowUps(t *testing.T) {
	assert.Nil(t, runtime.CleanFollowUps(nil))
	assert.Equal(t, []string{"a", "b", "c"}, runtime.CleanFollowUps([]string{" a ", "", "  ", "b", "c", "d"}))
}
