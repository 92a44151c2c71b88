// Package postgres persists reviewed intakes in the relational store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// ErrSubmissionNotFound is returned by Get for unknown ids.
var ErrSubmissionNotFound = errors.New("submission not found")

const schema = `
CREATE TABLE IF NOT EXISTS requests (
  id BIGSERIAL PRIMARY KEY,
  session_id TEXT NOT NULL,
  user_id TEXT NOT NULL DEFAULT '',
  service_key TEXT NOT NULL DEFAULT '',
  service_label TEXT NOT NULL DEFAULT '',
  is_emergency BOOLEAN NOT NULL DEFAULT FALSE,
  answers JSONB NOT NULL DEFAULT '[]'::jsonb,
  status TEXT NOT NULL DEFAULT 'new',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS requests_user_id_idx ON requests (user_id);
`

// Repository implements ports.SubmissionRepository on the requests table.
type Repository struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

// Open connects to dsn through the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return New(db), nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	r.schemaOnce.Do(func() {
		_, r.schemaErr = r.db.ExecContext(ctx, schema)
	})
	return r.schemaErr
}

// Create inserts the submission and fills in its ID.
func (r *Repository) Create(ctx context.Context, sub *domain.Submission) error {
	if err := r.ensureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `INSERT INTO requests
  (session_id, user_id, service_key, service_label, is_emergency, answers, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text`,
		sub.SessionID, sub.UserID, sub.ServiceKey, sub.ServiceLabel,
		sub.Emergency, answers, sub.Status, sub.CreatedAt,
	)
	if err := row.Scan(&sub.ID); err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// Get loads a submission by id.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Submission, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	var (
		sub     domain.Submission
		answers []byte
	)
	row := r.db.QueryRowContext(ctx, `SELECT id::text, session_id, user_id, service_key, service_label,
  is_emergency, answers, status, created_at
FROM requests WHERE id = $1::bigint`, id)
	err := row.Scan(&sub.ID, &sub.SessionID, &sub.UserID, &sub.ServiceKey, &sub.ServiceLabel,
		&sub.Emergency, &answers, &sub.Status, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if err := json.Unmarshal(answers, &sub.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	return &sub, nil
}

// Close closes the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}
