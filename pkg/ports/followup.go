package ports

import (
	"context"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// FollowUpGenerator asks an external completion service for clarifying questions.
// Callers treat any error as "no questions".
type FollowUpGenerator interface {
	Generate(ctx context.Context, req domain.FollowUpRequest) ([]string, error)
}

// FollowUpFunc adapts a plain function to FollowUpGenerator.
type FollowUpFunc func(ctx context.Context, req domain.FollowUpRequest) ([]string, error)

// Generate calls f.
func (f FollowUpFunc) Generate(ctx context.Context, req domain.FollowUpRequest) ([]string, error) {
	return f(ctx, req)
}
