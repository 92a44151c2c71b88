package runtime

import (
	"context"
	"strings"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// BuildSummary derives the structured summary from the session's answers.
// It does not mutate the session.
func (e *Engine) BuildSummary(s *domain.Session) domain.Summary {
	serviceKey := e.catalog.ServiceKey
	label := strings.TrimSpace(s.Captured[serviceKey])

	emergency, ok := s.Captured[e.catalog.EmergencyKey]
	if !ok && len(s.Answers) > 0 {
		emergency = s.Answers[0].Answer
	}

	answers := make([]domain.Answer, 0, len(s.Answers))
	for _, a := range s.Answers {
		// The service selection is carried by Summary.Service.
		if a.CaptureKey == serviceKey {
			continue
		}
		answers = append(answers, domain.Answer{Question: a.Question, Answer: a.Answer})
	}

	return domain.Summary{
		Service: domain.ServiceRef{
			Label: label,
			Key:   domain.NormalizeServiceKey(label),
		},
		Emergency: domain.IsEmergencyAnswer(emergency),
		Answers:   answers,
	}
}

// finish moves the session to the review stage and presents the summary.
func (e *Engine) finish(ctx context.Context, s *domain.Session) {
	sum := e.BuildSummary(s)
	s.Summary = &sum
	s.CurrentNodeID = domain.ReviewStage
	s.Branch = nil
	s.Say(domain.Message{Type: domain.MessageSummary, Text: RenderSummary(sum)})

	if e.hooks.OnReview != nil {
		e.hooks.OnReview(ctx, &domain.ReviewEvent{
			EventBase: newEventBase(domain.EventReview, s.ID),
			Service:   sum.Service.Key,
			Emergency: sum.Emergency,
			Answers:   len(sum.Answers),
		})
	}
}

// RenderSummary formats a summary as a bullet list.
func RenderSummary(sum domain.Summary) string {
	var sb strings.Builder
	sb.WriteString("Here is a summary of your request:\n")

	service := sum.Service.Label
	if service == "" {
		service = "Not specified"
	}
	sb.WriteString("- Service: " + service + "\n")

	emergency := "No"
	if sum.Emergency {
		emergency = "Yes"
	}
	sb.WriteString("- Emergency: " + emergency + "\n")

	for _, a := range sum.Answers {
		sb.WriteString("- " + a.Question + ": " + a.Answer + "\n")
	}
	sb.WriteString("\nPlease review the details and submit your request.")
	return sb.String()
}
