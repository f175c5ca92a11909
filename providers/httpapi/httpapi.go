// Package httpapi implements authentication against an external HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	retry "github.com/appleboy/go-httpretry"

	"github.com/go-authgate/authchain/config"
	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/internal/client"
)

var (
	ErrConnection  = errors.New("failed to connect to authentication API")
	ErrInvalidResp = errors.New("invalid response from authentication API")
)

// Compile-time interface check.
var _ core.Authenticator = (*Provider)(nil)

// Provider authenticates by POSTing credentials to an external HTTP API.
type Provider struct {
	config *config.Config
	client *retry.Client
}

// New creates an HTTP API provider with a retrying, authenticating client.
func New(cfg *config.Config) (*Provider, error) {
	retryClient, err := client.NewRetryClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Provider{config: cfg, client: retryClient}, nil
}

// Name returns the registered provider name.
func (p *Provider) Name() string { return "http_api" }

// Capabilities implements core.Provider.
func (p *Provider) Capabilities() []string {
	return []string{core.CapabilityAuthenticate}
}

// APIAuthRequest is the request payload sent to the external API
type APIAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIAuthResponse is the expected response from the external API
type APIAuthResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Authenticate verifies credentials against the external HTTP API.
//
// A rejection from the API is an outcome (StatusFailure on resp);
// connection and protocol errors are infrastructure faults and are
// returned.
func (p *Provider) Authenticate(
	ctx context.Context,
	creds core.Credentials,
	opts core.Options,
	resp *core.Response,
) error {
	reqBody := APIAuthRequest{
		Username: creds.Username(),
		Password: creds.Password(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.config.HTTPAPIURL,
		bytes.NewReader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The retry client re-sends the request on transient failures; the
	// body must be replayable or every retry goes out empty.
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(jsonData)), nil
	}

	// Authentication headers are added by the client itself.
	httpResp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response", ErrInvalidResp)
	}

	var authResp APIAuthResponse
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// A structured rejection is a normal failed login; anything else
		// is a protocol fault.
		if err := json.Unmarshal(body, &authResp); err == nil && authResp.Message != "" {
			resp.Status = core.StatusFailure
			resp.Message = authResp.Message
			return nil
		}
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return fmt.Errorf("%w: HTTP %d - %s", ErrInvalidResp, httpResp.StatusCode, bodyPreview)
	}

	if err := json.Unmarshal(body, &authResp); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResp, err)
	}

	if !authResp.Success {
		resp.Status = core.StatusFailure
		resp.Message = authResp.Message
		if resp.Message == "" {
			resp.Message = "authentication API rejected credentials"
		}
		return nil
	}

	if authResp.UserID == "" {
		return fmt.Errorf(
			"%w: external API returned success=true but missing user_id",
			ErrInvalidResp,
		)
	}

	resp.Status = core.StatusSuccess
	resp.Username = creds.Username()
	resp.FullName = authResp.FullName
	// Opaque handle only; the external API owns the real secret.
	resp.Password = authResp.UserID
	resp.Message = ""
	return nil
}

// Handle implements core.Provider.
func (p *Provider) Handle(ctx context.Context, event string, args ...any) (any, error) {
	if event != core.CapabilityAuthenticate {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownCapability, event)
	}
	if len(args) != 3 {
		return nil, fmt.Errorf("authenticate expects 3 args, got %d", len(args))
	}
	creds, _ := args[0].(core.Credentials)
	opts, _ := args[1].(core.Options)
	resp, ok := args[2].(*core.Response)
	if !ok {
		return nil, errors.New("authenticate expects a *core.Response third arg")
	}
	return nil, p.Authenticate(ctx, creds, opts, resp)
}
