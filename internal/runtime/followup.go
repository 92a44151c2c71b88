package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// beginFollowUps runs once the static script is exhausted. The generator is
// consulted at most once per session; any failure degrades to no questions.
func (e *Engine) beginFollowUps(ctx context.Context, s *domain.Session) {
	if !s.FollowUpsRequested {
		s.FollowUpsRequested = true
		s.FollowUps = domain.FollowUps{Questions: e.generate(ctx, s)}
	}
	e.askFollowUp(ctx, s)
}

func (e *Engine) generate(ctx context.Context, s *domain.Session) []string {
	if e.generator == nil {
		return nil
	}

	req := domain.FollowUpRequest{
		SessionID: s.ID,
		Service:   strings.TrimSpace(s.Captured[e.catalog.ServiceKey]),
		Answers:   append([]domain.Answer(nil), s.Answers...),
	}

	start := time.Now()
	raw, err := e.generator.Generate(ctx, req)
	var questions []string
	if err != nil {
		e.logger.Warn("follow-up generation failed", "session_id", s.ID, "error", err)
	} else {
		questions = CleanFollowUps(raw)
	}

	if e.hooks.OnFollowUp != nil {
		e.hooks.OnFollowUp(ctx, &domain.FollowUpEvent{
			EventBase: newEventBase(domain.EventFollowUp, s.ID),
			Questions: len(questions),
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return questions
}

// CleanFollowUps trims questions, drops empty ones and caps the list at
// domain.MaxFollowUps.
func CleanFollowUps(raw []string) []string {
	var out []string
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == domain.MaxFollowUps {
			break
		}
	}
	return out
}

func (e *Engine) askFollowUp(ctx context.Context, s *domain.Session) {
	if !s.FollowUps.Pending() {
		e.finish(ctx, s)
		return
	}
	s.CurrentNodeID = domain.FollowUpStage
	s.Say(domain.Message{
		Type:      domain.MessageQuestion,
		Text:      s.FollowUps.Questions[s.FollowUps.Asked],
		InputType: domain.InputText,
	})
	s.FollowUps.Asked++
}

func (e *Engine) answerFollowUp(ctx context.Context, s *domain.Session, text string) {
	asked := s.FollowUps.Asked
	if asked == 0 || asked > len(s.FollowUps.Questions) {
		e.logger.Warn("follow-up stage without an asked question", "session_id", s.ID, "asked", asked)
		e.finish(ctx, s)
		return
	}
	s.Record(s.FollowUps.Questions[asked-1], text, fmt.Sprintf("%s_%d", domain.FollowUpStage, asked))
	e.askFollowUp(ctx, s)
}
