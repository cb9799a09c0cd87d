package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonboulle/clockwork"
)

// FileStore persists the session as one JSON file. It is the default backend
// for CLI use, playing the role the browser's origin-scoped storage plays in
// the web portal.
type FileStore struct {
	path  string
	clock clockwork.Clock
	mu    sync.Mutex
}

func NewFileStore(path string, clock clockwork.Clock) *FileStore {
	return &FileStore{path: path, clock: clock}
}

func (s *FileStore) Save(_ context.Context, token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record{Token: token, User: user.clone(), SavedAt: s.clock.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Write-then-rename so a crash mid-write can never leave a torn session.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) CurrentUser(ctx context.Context) (*User, bool) {
	rec, ok := s.load(ctx)
	if !ok || rec.User == nil {
		return nil, false
	}
	return rec.User.clone(), true
}

func (s *FileStore) Token(ctx context.Context) (string, bool) {
	rec, ok := s.load(ctx)
	if !ok || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

func (s *FileStore) HasToken(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

func (s *FileStore) load(ctx context.Context) (record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return record{}, false
	}

	rec, err := decodeRecord(data)
	if err != nil {
		// Corrupt session data reads as "no session".
		slog.DebugContext(ctx, "Session file is not valid JSON, treating as absent", "path", s.path, "error", err)
		return record{}, false
	}
	return rec, true
}
