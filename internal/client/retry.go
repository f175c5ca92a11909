package client

import (
	"fmt"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"

	"github.com/go-authgate/authchain/config"
)

// NewRetryClient creates an HTTP client with retry support and
// authentication for the external authentication API.
func NewRetryClient(cfg *config.Config) (*retry.Client, error) {
	// Create HTTP client with automatic authentication
	client, err := httpclient.NewAuthClient(
		cfg.HTTPAPIAuthMode,
		cfg.HTTPAPIAuthSecret,
		httpclient.WithTimeout(cfg.HTTPAPITimeout),
		httpclient.WithHeaderName(cfg.HTTPAPIAuthHeader),
		httpclient.WithInsecureSkipVerify(cfg.HTTPAPIInsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	// Wrap with retry client
	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(cfg.HTTPAPIMaxRetries),
		retry.WithInitialRetryDelay(cfg.HTTPAPIRetryDelay),
		retry.WithMaxRetryDelay(cfg.HTTPAPIMaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}
