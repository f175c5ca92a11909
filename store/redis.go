package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "authchain:user:"

// Compile-time interface check.
var _ UserStore = (*RedisStore)(nil)

// RedisStore implements UserStore on Redis, one hash per user keyed by
// username. Suitable for multi-instance deployments sharing one account
// base.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// GetUserByUsername retrieves a user by username.
func (r *RedisStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	fields, err := r.client.HGetAll(ctx, redisKeyPrefix+username).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lookup failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrUserNotFound
	}
	return userFromFields(fields), nil
}

// CreateUser stores a new user hash. An empty ID is filled in with a
// fresh UUID.
func (r *RedisStore) CreateUser(ctx context.Context, u *User) error {
	key := redisKeyPrefix + u.Username

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis lookup failed: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := r.client.HSet(ctx, key, userToFields(u)).Err(); err != nil {
		return fmt.Errorf("redis write failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error { return r.client.Close() }

func userToFields(u *User) map[string]any {
	fields := map[string]any{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"full_name":     u.FullName,
		"password_hash": u.PasswordHash,
		"disabled":      strconv.FormatBool(u.Disabled),
		"created_at":    u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":    u.UpdatedAt.Format(time.RFC3339Nano),
	}
	if !u.ExpiresAt.IsZero() {
		fields["expires_at"] = u.ExpiresAt.Format(time.RFC3339Nano)
	}
	return fields
}

func userFromFields(fields map[string]string) *User {
	u := &User{
		ID:           fields["id"],
		Username:     fields["username"],
		Email:        fields["email"],
		FullName:     fields["full_name"],
		PasswordHash: fields["password_hash"],
	}
	u.Disabled, _ = strconv.ParseBool(fields["disabled"])
	u.ExpiresAt = parseTime(fields["expires_at"])
	u.CreatedAt = parseTime(fields["created_at"])
	u.UpdatedAt = parseTime(fields["updated_at"])
	return u
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
