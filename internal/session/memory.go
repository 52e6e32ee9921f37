package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Session, bool, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return Session{}, false, nil
	}
	return copySession(*s.session), true, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := copySession(sess)
	s.session = &c
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return nil
}

func copySession(s Session) Session {
	return Session{Token: s.Token, User: append(json.RawMessage(nil), s.User...)}
}
