// Package file keeps sessions as JSON documents in a local directory.
// It suits the terminal chat, where sessions must outlive the process but
// no shared store is running.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// DefaultDir is used when no directory is configured.
var DefaultDir = filepath.Join(".quoteagent", "sessions")

const ext = ".json"

// Store implements ports.SessionStore on the local filesystem.
type Store struct {
	BasePath string

	// mu serializes writers in this process; renames keep readers consistent.
	mu sync.Mutex
}

// New creates a Store rooted at basePath, or DefaultDir when empty.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

// path escapes the id so any session id maps to a single file in BasePath.
func (s *Store) path(sessionID string) string {
	return filepath.Join(s.BasePath, url.PathEscape(sessionID)+ext)
}

// Put writes the session atomically: temp file, fsync, rename.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return domain.ErrMissingSessionID
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(session.ID)
	if err := os.Rename(tmpPath, destPath); err != nil {
		// Windows refuses to rename over an existing file.
		if rmErr := os.Remove(destPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("failed to replace session file: %w", err)
		}
		if err := os.Rename(tmpPath, destPath); err != nil {
			return fmt.Errorf("failed to rename temp file: %w", err)
		}
	}
	return nil
}

// Get reads a session file.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}
	return s.read(s.path(sessionID))
}

func (s *Store) read(path string) (*domain.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session file. Missing sessions are not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns the stored session ids in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Sweep removes sessions last touched before now-maxAge.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)

	removed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		session, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if session.UpdatedAt.Before(cutoff) {
			if err := s.Delete(ctx, id); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
