package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := &User{Username: "alice", FullName: "Alice Example"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alice Example", got.FullName)

	// The store hands out copies, not its internal pointer.
	got.FullName = "changed"
	again, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", again.FullName)
}

func TestMemoryStore_GetUnknownUser(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &User{Username: "alice"}))
	err := s.CreateUser(ctx, &User{Username: "alice"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUser_Expired(t *testing.T) {
	assert.False(t, (&User{}).Expired())
	assert.False(t, (&User{ExpiresAt: time.Now().Add(time.Hour)}).Expired())
	assert.True(t, (&User{ExpiresAt: time.Now().Add(-time.Hour)}).Expired())
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	// Same input hashes differently (salted) but both verify.
	hash2, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
