// Package local implements authentication against the user store with
// bcrypt password verification. The provider also listens on the user
// authorisation broadcast, vetoing disabled and expired accounts.
package local

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/store"
)

// Compile-time interface check.
var _ core.Authenticator = (*Provider)(nil)

// Provider authenticates against a UserStore.
type Provider struct {
	store store.UserStore
}

// New creates a local provider over the given store.
func New(s store.UserStore) *Provider {
	return &Provider{store: s}
}

// Name returns the registered provider name.
func (p *Provider) Name() string { return "local" }

// Capabilities implements core.Provider.
func (p *Provider) Capabilities() []string {
	return []string{core.CapabilityAuthenticate, core.EventUserAuthorisation}
}

// Authenticate verifies credentials against the user store.
//
// Outcomes are reported through resp.Status: StatusUnknown for accounts
// the store does not know, StatusFailure for a bad password, StatusSuccess
// otherwise. Only store infrastructure errors are returned.
func (p *Provider) Authenticate(
	ctx context.Context,
	creds core.Credentials,
	opts core.Options,
	resp *core.Response,
) error {
	user, err := p.store.GetUserByUsername(ctx, creds.Username())
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			resp.Status = core.StatusUnknown
			resp.Message = "user not recognized"
			return nil
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(creds.Password()),
	); err != nil {
		resp.Status = core.StatusFailure
		resp.Message = "invalid username or password"
		return nil
	}

	resp.Status = core.StatusSuccess
	resp.Username = user.Username
	resp.FullName = user.FullName
	// Opaque handle only; the plaintext never survives authentication.
	resp.Password = user.PasswordHash
	resp.Message = ""
	return nil
}

// Handle implements core.Provider, dispatching the declared capabilities.
func (p *Provider) Handle(ctx context.Context, event string, args ...any) (any, error) {
	switch event {
	case core.CapabilityAuthenticate:
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

	case core.EventUserAuthorisation:
		if len(args) < 1 {
			return nil, errors.New("authorisation expects a *core.Response first arg")
		}
		resp, ok := args[0].(*core.Response)
		if !ok {
			return nil, errors.New("authorisation expects a *core.Response first arg")
		}
		return p.authorise(ctx, resp)

	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownCapability, event)
	}
}

// authorise checks that the authenticated account is still allowed to log
// in. It returns a verdict response and never vetoes accounts it does not
// know about.
func (p *Provider) authorise(ctx context.Context, resp *core.Response) (*core.Response, error) {
	user, err := p.store.GetUserByUsername(ctx, resp.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return &core.Response{
				Status:   core.StatusUnknown,
				Username: resp.Username,
				Message:  "user not recognized",
			}, nil
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	verdict := &core.Response{Username: user.Username, FullName: user.FullName}
	switch {
	case user.Disabled:
		verdict.Status = core.StatusDenied
		verdict.Message = "account is disabled"
	case user.Expired():
		verdict.Status = core.StatusExpired
		verdict.Message = "account has expired"
	default:
		verdict.Status = core.StatusSuccess
	}
	return verdict, nil
}
