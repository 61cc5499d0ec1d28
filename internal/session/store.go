// Package session persists the operator's login between invocations: the
// bearer token and the user it belongs to, in a JSON file under the user
// config directory. The file stands in for the browser's local storage in the
// original web terminal.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"till/internal/catalog"
)

// Session is one persisted login.
type Session struct {
	Token   string       `json:"token"`
	User    catalog.User `json:"user"`
	SavedAt time.Time    `json:"saved_at"`
}

// Store reads and writes the session file. It implements api.TokenSource.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the default session file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "till-session.json")
	}
	return filepath.Join(dir, "till", "session.json")
}

// Save writes the session. The file is 0600: it holds a bearer token.
func (s *Store) Save(sess Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Load reads the session. A missing file returns (nil, nil): not logged in.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &sess, nil
}

// Clear removes the session file. Clearing an absent session is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when not logged in.
func (s *Store) Token() string {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}
