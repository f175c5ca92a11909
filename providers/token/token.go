// Package token implements authentication of JWT bearer credentials using
// local HMAC verification.
package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/go-authgate/authchain/core"
)

// CredentialKey is the credentials entry carrying the JWT.
const CredentialKey = "token"

// Compile-time interface check.
var _ core.Authenticator = (*Provider)(nil)

// Provider validates JWT bearer tokens signed with a shared HMAC secret.
type Provider struct {
	secret []byte
}

// New creates a token provider verifying against the given secret.
func New(secret string) *Provider {
	return &Provider{secret: []byte(secret)}
}

// Name returns the registered provider name.
func (p *Provider) Name() string { return "token" }

// Capabilities implements core.Provider.
func (p *Provider) Capabilities() []string {
	return []string{core.CapabilityAuthenticate}
}

// Authenticate verifies the "token" credential entry.
//
// Credentials without a token entry leave the response untouched so later
// providers can try; a present but invalid token is StatusFailure and an
// expired one StatusExpired.
func (p *Provider) Authenticate(
	ctx context.Context,
	creds core.Credentials,
	opts core.Options,
	resp *core.Response,
) error {
	tokenString := creds[CredentialKey]
	if tokenString == "" {
		return nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			resp.Status = core.StatusExpired
			resp.Message = "token has expired"
			return nil
		}
		resp.Status = core.StatusFailure
		resp.Message = "invalid token"
		return nil
	}
	if !token.Valid {
		resp.Status = core.StatusFailure
		resp.Message = "invalid token"
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		resp.Status = core.StatusFailure
		resp.Message = "invalid token"
		return nil
	}

	username, _ := claims["sub"].(string)
	if username == "" {
		username, _ = claims["username"].(string)
	}
	if username == "" {
		resp.Status = core.StatusFailure
		resp.Message = "token carries no subject"
		return nil
	}
	fullName, _ := claims["name"].(string)

	resp.Status = core.StatusSuccess
	resp.Username = username
	resp.FullName = fullName
	// Opaque handle only; the bearer token itself stays out of the response.
	resp.Password = "jwt"
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
