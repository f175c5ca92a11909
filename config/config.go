// Package config loads the library configuration from environment
// variables, with an optional .env file via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-authgate/authchain/core"
)

// Authentication provider type constants
const (
	ProviderTypeLocal   = "local"
	ProviderTypeHTTPAPI = "http_api"
	ProviderTypeToken   = "token"
)

// User store type constants
const (
	UserStoreMemory = "memory"
	UserStoreRedis  = "redis"
)

type Config struct {
	// Ordered authentication provider chain. Earlier providers are tried
	// first; the first to report success wins.
	AuthProviders []string

	// Ordered authorization listener providers (the "user" family).
	UserProviders []string

	// User store backing the local provider
	UserStoreType string // "memory" or "redis"

	// Redis settings (only used when UserStoreType = "redis")
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HTTP API authentication provider
	HTTPAPIURL                string
	HTTPAPITimeout            time.Duration
	HTTPAPIInsecureSkipVerify bool
	HTTPAPIAuthMode           string // "none", "simple", or "hmac"
	HTTPAPIAuthSecret         string
	HTTPAPIAuthHeader         string // Custom header name for simple mode
	HTTPAPIMaxRetries         int
	HTTPAPIRetryDelay         time.Duration
	HTTPAPIMaxRetryDelay      time.Duration

	// Token (JWT bearer) provider
	JWTSecret string

	// Login throttling (authorization listener)
	ThrottleEnabled bool
	ThrottleLimit   int64 // attempts per period, per username
	ThrottlePeriod  time.Duration

	// Metrics
	MetricsEnabled bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		AuthProviders: getEnvList("AUTH_PROVIDERS", []string{ProviderTypeLocal}),
		UserProviders: getEnvList("USER_PROVIDERS", []string{ProviderTypeLocal}),

		UserStoreType: getEnv("USER_STORE", UserStoreMemory),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		HTTPAPIURL:                getEnv("HTTP_API_URL", ""),
		HTTPAPITimeout:            getEnvDuration("HTTP_API_TIMEOUT", 10*time.Second),
		HTTPAPIInsecureSkipVerify: getEnvBool("HTTP_API_INSECURE_SKIP_VERIFY", false),
		HTTPAPIAuthMode:           getEnv("HTTP_API_AUTH_MODE", "none"),
		HTTPAPIAuthSecret:         getEnv("HTTP_API_AUTH_SECRET", ""),
		HTTPAPIAuthHeader:         getEnv("HTTP_API_AUTH_HEADER", "X-API-Secret"),
		HTTPAPIMaxRetries:         getEnvInt("HTTP_API_MAX_RETRIES", 3),
		HTTPAPIRetryDelay:         getEnvDuration("HTTP_API_RETRY_DELAY", 1*time.Second),
		HTTPAPIMaxRetryDelay:      getEnvDuration("HTTP_API_MAX_RETRY_DELAY", 10*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ThrottleEnabled: getEnvBool("THROTTLE_ENABLED", false),
		ThrottleLimit:   int64(getEnvInt("THROTTLE_LIMIT", 10)),
		ThrottlePeriod:  getEnvDuration("THROTTLE_PERIOD", 1*time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
	}
}

// Validate checks the configuration for values that would fail later in a
// harder-to-diagnose place.
func (c *Config) Validate() error {
	switch c.UserStoreType {
	case UserStoreMemory, UserStoreRedis:
	default:
		return fmt.Errorf("invalid USER_STORE value: %q (must be %q or %q)",
			c.UserStoreType, UserStoreMemory, UserStoreRedis)
	}

	for _, p := range c.AuthProviders {
		if err := validateProviderType("AUTH_PROVIDERS", p); err != nil {
			return err
		}
	}
	for _, p := range c.UserProviders {
		if err := validateProviderType("USER_PROVIDERS", p); err != nil {
			return err
		}
	}

	if hasProvider(c.AuthProviders, ProviderTypeHTTPAPI) && c.HTTPAPIURL == "" {
		return fmt.Errorf("HTTP_API_URL is required when %q is in AUTH_PROVIDERS", ProviderTypeHTTPAPI)
	}
	if hasProvider(c.AuthProviders, ProviderTypeToken) && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when %q is in AUTH_PROVIDERS", ProviderTypeToken)
	}

	if c.ThrottleEnabled {
		if c.ThrottleLimit <= 0 {
			return fmt.Errorf("invalid THROTTLE_LIMIT value: %d (must be positive)", c.ThrottleLimit)
		}
		if c.ThrottlePeriod <= 0 {
			return fmt.Errorf("invalid THROTTLE_PERIOD value: %s (must be positive)", c.ThrottlePeriod)
		}
	}

	return nil
}

func validateProviderType(envName, p string) error {
	switch p {
	case ProviderTypeLocal, ProviderTypeHTTPAPI, ProviderTypeToken:
		return nil
	default:
		return fmt.Errorf("invalid %s value: %q", envName, p)
	}
}

func hasProvider(providers []string, name string) bool {
	for _, p := range providers {
		if p == name {
			return true
		}
	}
	return false
}

// AuthenticationDescriptors returns the ordered descriptors for the
// authentication family.
func (c *Config) AuthenticationDescriptors() []core.Descriptor {
	return c.descriptors(core.FamilyAuthentication, c.AuthProviders)
}

// UserDescriptors returns the ordered descriptors for the user family
// (authorization listeners).
func (c *Config) UserDescriptors() []core.Descriptor {
	return c.descriptors(core.FamilyUser, c.UserProviders)
}

func (c *Config) descriptors(family string, types []string) []core.Descriptor {
	out := make([]core.Descriptor, 0, len(types))
	for _, t := range types {
		out = append(out, core.Descriptor{
			Family: family,
			Type:   t,
			Name:   t,
		})
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
