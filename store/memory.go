package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time interface check.
var _ UserStore = (*MemoryStore)(nil)

// MemoryStore implements UserStore with in-memory storage. Suitable for
// tests and single-instance deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// GetUserByUsername retrieves a user by username.
func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// CreateUser stores a new user. An empty ID is filled in with a fresh
// UUID.
func (m *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	m.users[u.Username] = &cp
	return nil
}

// Close implements UserStore. It is a no-op for the memory store.
func (m *MemoryStore) Close() error { return nil }
