// Package store holds the user account storage behind the local
// authentication provider.
package store

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type User struct {
	ID           string
	Username     string
	Email        string // Optional
	FullName     string
	PasswordHash string

	// Disabled marks an account that must be denied login outright.
	Disabled bool

	// ExpiresAt is the account expiry; the zero value means never.
	ExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired returns true if the account has an expiry in the past.
func (u *User) Expired() bool {
	return !u.ExpiresAt.IsZero() && u.ExpiresAt.Before(time.Now())
}

// UserStore is the account lookup contract the local provider depends on.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	Close() error
}

// HashPassword returns the bcrypt hash of a plaintext password at the
// default cost.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
