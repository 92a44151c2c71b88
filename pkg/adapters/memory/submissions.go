package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// SubmissionRepository keeps submissions in memory. It backs the service when
// no database is configured.
type SubmissionRepository struct {
	mu   sync.RWMutex
	seq  int
	subs []domain.Submission
}

// NewSubmissionRepository creates an empty repository.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

// Create stores a copy of sub and assigns it a sequential ID.
func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	sub.ID = fmt.Sprintf("req-%d", r.seq)
	stored := *sub
	stored.Answers = append([]domain.Answer(nil), sub.Answers...)
	r.subs = append(r.subs, stored)
	return nil
}

// All returns the stored submissions in creation order.
func (r *SubmissionRepository) All() []domain.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Submission(nil), r.subs...)
}
