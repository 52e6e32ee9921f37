// Package session holds the authenticated session (access token and user profile)
// and the stores it is persisted in.
//
// A [Session] is either complete (token and user) or absent. Stores never hold a
// partial session, and [StoreManager] replaces both fields in a single write.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// Session is the persisted authentication state.
type Session struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Valid reports whether both token and user are present.
func (s Session) Valid() bool {
	return s.Token != "" && models.HasUser(s.User)
}

// Profile decodes the stored user.
func (s Session) Profile() (models.User, error) {
	return models.ParseUser(s.User)
}

// Store persists a single session.
type Store interface {
	// Load returns the stored session and whether one exists.
	Load(ctx context.Context) (Session, bool, error)
	// Save replaces the stored session.
	Save(ctx context.Context, s Session) error
	// Delete removes the stored session. Deleting a missing session is not an error.
	Delete(ctx context.Context) error
}

// Listener is notified after the session changes. ok is false once the session is cleared.
type Listener func(s Session, ok bool)

// Manager is the session contract the request client depends on.
type Manager interface {
	Get(ctx context.Context) (Session, bool, error)
	Set(ctx context.Context, token string, user json.RawMessage) error
	Clear(ctx context.Context) error
	OnChange(fn Listener) (unsubscribe func())
}

// StoreManager implements [Manager] over a [Store].
//
// Reads and writes are serialized so that a reader never observes a half-applied update.
type StoreManager struct {
	mu        sync.Mutex
	store     Store
	logger    *log.Logger
	listeners map[int]Listener
	nextID    int
}

var _ Manager = (*StoreManager)(nil)

// NewManager creates a [StoreManager]. A nil logger discards output.
func NewManager(store Store, logger *log.Logger) *StoreManager {
	if logger == nil {
		logger = log.New(nopWriter{})
	}
	return &StoreManager{
		store:     store,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Get returns the current session. A stored session missing either field is treated as absent.
func (m *StoreManager) Get(ctx context.Context) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok, err := m.store.Load(ctx)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok || !s.Valid() {
		return Session{}, false, nil
	}
	return s, true, nil
}

// Set replaces token and user together.
func (m *StoreManager) Set(ctx context.Context, token string, user json.RawMessage) error {
	s := Session{Token: token, User: append(json.RawMessage(nil), user...)}
	if !s.Valid() {
		return shared.ErrIncompleteSession
	}

	m.mu.Lock()
	if err := m.store.Save(ctx, s); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to save session: %w", err)
	}
	listeners := m.snapshot()
	m.mu.Unlock()

	m.logger.Debug("session updated")
	for _, fn := range listeners {
		fn(s, true)
	}
	return nil
}

// Clear removes the session. Clearing an empty session is a no-op apart from notifying listeners.
func (m *StoreManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if err := m.store.Delete(ctx); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to clear session: %w", err)
	}
	listeners := m.snapshot()
	m.mu.Unlock()

	m.logger.Debug("session cleared")
	for _, fn := range listeners {
		fn(Session{}, false)
	}
	return nil
}

// OnChange registers fn and returns a function that removes it.
func (m *StoreManager) OnChange(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *StoreManager) snapshot() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
