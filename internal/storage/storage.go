// Package storage is the durable client-state contract: whole records saved
// and loaded by key. Backends live in storage (memory), redisclient and store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Load when nothing was saved under the key
var ErrNotFound = errors.New("storage: key not found")

// Record names used by the session host
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyUser     = "user"
)

// Backend saves and loads serialized records
type Backend interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// SessionKey scopes a record name to one session
func SessionKey(sessionID, name string) string {
	return fmt.Sprintf("storefront:%s:%s", sessionID, name)
}

// Memory is an in-process Backend
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = buf
	return nil
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(val))
	copy(buf, val)
	return buf, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// Scoped binds a backend to one session so callers use bare record names
type Scoped struct {
	backend   Backend
	sessionID string
}

// Scope returns a session-scoped view of backend
func Scope(backend Backend, sessionID string) *Scoped {
	return &Scoped{backend: backend, sessionID: sessionID}
}

func (s *Scoped) Save(ctx context.Context, name string, value []byte) error {
	return s.backend.Save(ctx, SessionKey(s.sessionID, name), value)
}

func (s *Scoped) Load(ctx context.Context, name string) ([]byte, error) {
	return s.backend.Load(ctx, SessionKey(s.sessionID, name))
}

func (s *Scoped) Delete(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, SessionKey(s.sessionID, name))
}
