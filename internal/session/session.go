// Package session persists the authenticated user's identity between runs.
// It mirrors the two values the web drafts kept in localStorage: a serialized
// user record and an auth token.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/swiftlogi/marketplace/internal/user"
)

// Session is the client-held record of who is logged in. It is a cache of the
// server's last answer; the server always wins.
type Session struct {
	UserID        int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          user.Role `json:"role"`
	WalletBalance float64   `json:"walletBalance,omitempty"`
	Token         string    `json:"-"`
}

// Store loads, saves and clears the persisted session. Load returns
// ok == false when no usable session exists; malformed persisted state is
// treated the same as absence and the caller falls back to the login screen.
type Store interface {
	Load() (Session, bool, error)
	Save(s Session) error
	Clear() error
}

const (
	userFile  = "user.json"
	tokenFile = "token"
)

// FileStore keeps the session in two files under a state directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) Load() (Session, bool, error) {
	raw, err := os.ReadFile(filepath.Join(f.dir, userFile))
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// a corrupt user record is indistinguishable from no session
		return Session{}, false, nil
	}
	if s.UserID == 0 {
		return Session{}, false, nil
	}

	// token is optional: earlier drafts stored only the user record
	if tok, err := os.ReadFile(filepath.Join(f.dir, tokenFile)); err == nil {
		s.Token = string(tok)
	}

	return s, true, nil
}

func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(f.dir, userFile), raw, 0o600); err != nil {
		return err
	}

	if s.Token == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(f.dir, tokenFile), []byte(s.Token), 0o600)
}

func (f *FileStore) Clear() error {
	for _, name := range []string{userFile, tokenFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	present bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.present, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.present = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.present = false
	return nil
}
