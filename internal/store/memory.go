// Package store holds active puzzle sessions for the HTTP layer.
//
// The engines are single-writer per session; this store only provides
// lookup. Handlers serialize access per session via the store's
// per-session locking helper.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/session"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store is the persistence interface for in-progress sessions.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *session.Session) error
	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*session.Session, error)
	// Delete removes a session (player exited or reset).
	Delete(ctx context.Context, id string) error
	// Lock takes the session's logical lock; the returned func releases
	// it. Session transition functions are not safe for interleaved
	// mutation, so every mutating handler wraps its work in Lock.
	Lock(id string) func()
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		sessions: make(map[string]*session.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.lockMu.Lock()
	delete(m.locks, id)
	m.lockMu.Unlock()
	return nil
}

func (m *memory) Lock(id string) func() {
	m.lockMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.lockMu.Unlock()
	l.Lock()
	return l.Unlock
}
