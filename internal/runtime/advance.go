package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// Advance applies one user message to the session.
// Blank messages are ignored. Schema mismatches (unknown node, unmapped
// branch value) are logged and short-circuit to the summary.
func (e *Engine) Advance(ctx context.Context, s *domain.Session, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.Transcript = append(s.Transcript, domain.Message{Role: domain.RoleUser, Text: text})

	if s.InReview() {
		s.Say(domain.Message{Type: domain.MessageNotice, Text: ReviewNotice})
		return
	}

	if s.CurrentNodeID == domain.FollowUpStage {
		e.answerFollowUp(ctx, s, text)
		return
	}

	node, ok := e.catalog.Node(s.CurrentNodeID)
	if !ok {
		e.logger.Warn("session points at an unknown node", "session_id", s.ID, "node_id", s.CurrentNodeID)
		e.finish(ctx, s)
		return
	}

	if node.Kind == domain.KindBranch {
		e.answerBranch(ctx, s, node, text)
		return
	}

	s.Record(node.Prompt, text, node.CaptureKey)
	e.enter(ctx, s, node.Next)
}

// enter moves the session to id and asks its question. Nodes whose capture
// key is already filled are passed through, as are branches with no questions.
func (e *Engine) enter(ctx context.Context, s *domain.Session, id string) {
	for {
		if id == "" {
			e.beginFollowUps(ctx, s)
			return
		}

		node, ok := e.catalog.Node(id)
		if !ok {
			e.logger.Warn("next node not found", "session_id", s.ID, "node_id", id)
			e.finish(ctx, s)
			return
		}
		s.CurrentNodeID = node.ID
		e.emitNodeEnter(ctx, s, node)

		if node.Kind == domain.KindBranch {
			progress, ok := e.dispatch(s, node)
			if !ok {
				e.finish(ctx, s)
				return
			}
			if progress == nil {
				id = node.Next
				continue
			}
			s.Branch = progress
			if node.Prompt != "" {
				s.Say(domain.Message{Type: domain.MessageNotice, Text: node.Prompt})
			}
			e.askBranchQuestion(s)
			return
		}

		if _, filled := s.Captured[node.CaptureKey]; filled {
			e.logger.Debug("skipping answered node", "session_id", s.ID, "node_id", node.ID)
			id = node.Next
			continue
		}

		s.Say(domain.Message{
			Type:      domain.MessageQuestion,
			Text:      node.Prompt,
			InputType: node.InputType(),
			Options:   append([]string(nil), node.Options...),
		})
		return
	}
}

// dispatch resolves a branch node against the captured variable.
// It returns ok=false on a miss and a nil progress for a case without questions.
func (e *Engine) dispatch(s *domain.Session, node *domain.Node) (*domain.BranchProgress, bool) {
	value, present := s.Captured[node.Variable]
	switch target := node.Resolve(value, present).(type) {
	case domain.MatchedCase:
		if len(target.Case.Questions) == 0 {
			return nil, true
		}
		return &domain.BranchProgress{
			NodeID:    node.ID,
			CaseKey:   target.Case.Key,
			Questions: append([]string(nil), target.Case.Questions...),
		}, true
	case domain.UnrecognizedCase:
		e.logger.Warn("branch has no case for captured value",
			"session_id", s.ID, "node_id", node.ID, "variable", node.Variable,
			"value", target.Value, "present", target.Present)
	}
	return nil, false
}

func (e *Engine) answerBranch(ctx context.Context, s *domain.Session, node *domain.Node, text string) {
	progress, ok := e.dispatch(s, node)
	if !ok {
		e.finish(ctx, s)
		return
	}
	if progress == nil {
		e.enter(ctx, s, node.Next)
		return
	}
	// Keep the cursor while the captured value still selects the same case.
	if cur := s.Branch; cur != nil && cur.NodeID == node.ID && cur.CaseKey == progress.CaseKey && cur.Index < len(cur.Questions) {
		progress = cur
	}
	s.Branch = progress

	key := fmt.Sprintf("%s_%d", node.CaptureKey, progress.Index+1)
	s.Record(progress.Questions[progress.Index], text, key)
	progress.Index++

	if progress.Index < len(progress.Questions) {
		e.askBranchQuestion(s)
		return
	}
	s.Branch = nil
	e.enter(ctx, s, node.Next)
}

func (e *Engine) askBranchQuestion(s *domain.Session) {
	s.Say(domain.Message{
		Type:      domain.MessageQuestion,
		Text:      s.Branch.Questions[s.Branch.Index],
		InputType: domain.InputText,
	})
}

func (e *Engine) emitNodeEnter(ctx context.Context, s *domain.Session, node *domain.Node) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: newEventBase(domain.EventNodeEnter, s.ID),
		NodeID:    node.ID,
		Kind:      node.Kind,
	})
}
