// Package session holds the authenticated identity for the CLI and TUI.
// The bearer token is persisted under the XDG data dir so a sign-in
// survives across invocations; everything else is in-memory only.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cape-app/cape/internal/common"
	"golang.org/x/oauth2"
)

// Store owns the persisted session token. Safe for concurrent use; the
// TUI's fetch commands share one store across goroutines.
type Store struct {
	path    string
	refresh *oauth2.Config

	mu     sync.Mutex
	token  *oauth2.Token
	loaded bool
}

// NewStore creates a store persisting to the given file. A non-nil
// refresh config enables token refresh through the provider's token
// endpoint; without one, an expired token just means signing in again.
func NewStore(path string, refresh *oauth2.Config) *Store {
	return &Store{path: path, refresh: refresh}
}

// DefaultPath resolves the session file location, honoring XDG_DATA_HOME.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}

	capeDir := filepath.Join(dataDir, "cape")
	if err := os.MkdirAll(capeDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(capeDir, "session.json"), nil
}

// SignIn saves the token as the active session.
func (s *Store) SignIn(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(token)
}

// persist writes the token and updates in-memory state. Callers hold mu.
func (s *Store) persist(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", common.ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.token = token
	s.loaded = true
	return nil
}

// SignOut removes the persisted session. Signing out twice is fine.
func (s *Store) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Token returns the active session token, loading it from disk on first
// use. Returns common.ErrSignedOut when there is no session; a corrupt
// or unreadable session file reads as signed out, never as an error.
func (s *Store) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.token = s.load()
		s.loaded = true
	}

	if s.token == nil {
		return nil, common.ErrSignedOut
	}

	if s.refresh != nil && !s.token.Valid() && s.token.RefreshToken != "" {
		refreshed, err := s.refresh.TokenSource(ctx, s.token).Token()
		if err != nil {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		if err := s.persist(refreshed); err != nil {
			return nil, err
		}
	}

	return s.token, nil
}

// AccessToken implements api.TokenProvider. A missing session yields an
// empty token rather than an error so public endpoints keep working;
// authenticated endpoints answer 401 and the guard handles the rest.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	token, err := s.Token(ctx)
	if errors.Is(err, common.ErrSignedOut) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// SignedIn reports whether a session token exists.
func (s *Store) SignedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// Expiry returns the token expiry, zero when unknown or signed out.
func (s *Store) Expiry(ctx context.Context) time.Time {
	token, err := s.Token(ctx)
	if err != nil {
		return time.Time{}
	}
	return token.Expiry
}

func (s *Store) load() *oauth2.Token {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		slog.Debug("Ignoring corrupt session file", "path", s.path, "error", err)
		return nil
	}
	if token.AccessToken == "" {
		return nil
	}

	return &token
}
