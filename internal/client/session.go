package client

// SESSION STATE:
// The CLI keeps its login state in a small JSON file, the way the web client
// keeps it in localStorage. The rules match the web client exactly:
//
//   - Saving a session writes token + user + expiry to disk.
//   - An expired session reads back as "not logged in" — silently, with no
//     error. Tokens are short-lived, so a stale file is normal, not a fault.
//   - Logout only removes the local file. The server keeps no session state,
//     so there is nothing to revoke remotely.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/model"
)

const sessionFile = "emoai_session.json"

// Session is a logged-in state: the bearer token plus the user it belongs to.
type Session struct {
	Token     string           `json:"token"`
	User      model.PublicUser `json:"user"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Valid reports whether the session can still be used.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// SessionStore persists sessions to a state directory.
type SessionStore struct {
	dir string
}

// NewSessionStore creates a store rooted at dir, creating it if needed.
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("client: creating state dir %s: %w", dir, err)
	}
	return &SessionStore{dir: dir}, nil
}

// DefaultStateDir returns the per-user state directory (~/.config/emoai on
// Linux, the platform equivalent elsewhere).
func DefaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("client: locating config dir: %w", err)
	}
	return filepath.Join(base, "emoai"), nil
}

// Save writes a session obtained from a successful login. The expiry is
// pinned to the token lifetime so a later Load can expire it locally without
// a round trip to the server.
func (st *SessionStore) Save(token string, user model.PublicUser) error {
	sess := Session{
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("client: encoding session: %w", err)
	}
	// 0600: the file contains a bearer token.
	if err := os.WriteFile(st.path(), data, 0o600); err != nil {
		return fmt.Errorf("client: writing session: %w", err)
	}
	return nil
}

// Load returns the saved session, or nil when there is none. An expired or
// unreadable session file counts as "not logged in" and is cleaned up —
// never surfaced as an error.
func (st *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(st.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client: reading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt state file — treat it like an expired session.
		_ = os.Remove(st.path())
		return nil, nil
	}

	if !sess.Valid(time.Now()) {
		_ = os.Remove(st.path())
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the local session. This IS logout: the token simply stops
// being presented and expires on its own.
func (st *SessionStore) Clear() error {
	err := os.Remove(st.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (st *SessionStore) path() string {
	return filepath.Join(st.dir, sessionFile)
}
