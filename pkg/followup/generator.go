package followup

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// DefaultSystemPrompt instructs the model to answer with the follow-up JSON shape.
const DefaultSystemPrompt = `You help a plumbing company prepare accurate quotes.
Given the service a customer asked for and their answers so far, decide whether
a technician would need more information before quoting.

Reply with a single JSON object and nothing else:
{"requiresFollowUp": boolean, "questions": string[]}

Ask at most 3 short, specific questions. Do not repeat questions that were already answered.
If nothing else is needed, reply {"requiresFollowUp": false, "questions": []}.`

// Defaults for the completion call.
const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 300
)

// Generator implements ports.FollowUpGenerator with an eino chat model.
type Generator struct {
	chatModel    model.BaseChatModel
	systemPrompt string
	temperature  float32
	maxTokens    int
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithSystemPrompt overrides DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(g *Generator) {
		if prompt != "" {
			g.systemPrompt = prompt
		}
	}
}

// New creates a generator over chatModel.
func New(chatModel model.BaseChatModel, opts ...Option) *Generator {
	g := &Generator{
		chatModel:    chatModel,
		systemPrompt: DefaultSystemPrompt,
		temperature:  DefaultTemperature,
		maxTokens:    DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for follow-up questions. An empty slice with a nil
// error means the model declined.
func (g *Generator) Generate(ctx context.Context, req domain.FollowUpRequest) ([]string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(BuildPrompt(req)),
	}

	resp, err := g.chatModel.Generate(ctx, messages,
		model.WithTemperature(g.temperature),
		model.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("LLM returned no message")
	}
	return Parse(resp.Content)
}

// BuildPrompt renders the service category and answers for the model.
func BuildPrompt(req domain.FollowUpRequest) string {
	var sb strings.Builder
	service := req.Service
	if service == "" {
		service = "Unspecified"
	}
	sb.WriteString("Service category: " + service + "\n\n")
	sb.WriteString("Answers so far:\n")
	if len(req.Answers) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, a := range req.Answers {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Question, a.Answer)
	}
	return sb.String()
}
