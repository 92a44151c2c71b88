package ports

import (
	"context"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// SubmissionRepository persists reviewed intakes.
type SubmissionRepository interface {
	// Create stores the submission and fills in its ID.
	Create(ctx context.Context, sub *domain.Submission) error
}

// IdentityProvider verifies a bearer credential.
// It returns domain.ErrUnauthorized when the credential is rejected.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}
