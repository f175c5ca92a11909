package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/store"
)

func seedUser(t *testing.T, s store.UserStore, u store.User, password string) {
	t.Helper()
	hash, err := store.HashPassword(password)
	require.NoError(t, err)
	u.PasswordHash = hash
	require.NoError(t, s.CreateUser(context.Background(), &u))
}

func TestProvider_Authenticate(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, store.User{Username: "alice", FullName: "Alice Example"}, "correct-horse")
	p := New(s)

	tests := []struct {
		name       string
		creds      core.Credentials
		wantStatus core.Status
	}{
		{
			name:       "valid credentials",
			creds:      core.Credentials{"username": "alice", "password": "correct-horse"},
			wantStatus: core.StatusSuccess,
		},
		{
			name:       "wrong password",
			creds:      core.Credentials{"username": "alice", "password": "battery-staple"},
			wantStatus: core.StatusFailure,
		},
		{
			name:       "unknown user",
			creds:      core.Credentials{"username": "mallory", "password": "whatever"},
			wantStatus: core.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &core.Response{}
			err := p.Authenticate(context.Background(), tt.creds, nil, resp)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestProvider_Authenticate_PopulatesIdentity(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, store.User{Username: "alice", FullName: "Alice Example"}, "pw")
	p := New(s)

	resp := &core.Response{}
	err := p.Authenticate(context.Background(),
		core.Credentials{"username": "alice", "password": "pw"}, nil, resp)
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "Alice Example", resp.FullName)
	// The response carries the stored hash, never the submitted plaintext.
	assert.NotEqual(t, "pw", resp.Password)
	assert.NotEmpty(t, resp.Password)
}

func TestProvider_Authorise_Verdicts(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, store.User{Username: "active"}, "pw")
	seedUser(t, s, store.User{Username: "blocked", Disabled: true}, "pw")
	seedUser(t, s, store.User{Username: "lapsed", ExpiresAt: time.Now().Add(-time.Hour)}, "pw")
	p := New(s)

	tests := []struct {
		username   string
		wantStatus core.Status
	}{
		{"active", core.StatusSuccess},
		{"blocked", core.StatusDenied},
		{"lapsed", core.StatusExpired},
		{"stranger", core.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			got, err := p.Handle(context.Background(), core.EventUserAuthorisation,
				&core.Response{Username: tt.username})
			require.NoError(t, err)
			verdict, ok := got.(*core.Response)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, verdict.Status)
		})
	}
}

func TestProvider_Handle_AuthenticateCapability(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, store.User{Username: "alice"}, "pw")
	p := New(s)

	resp := &core.Response{}
	_, err := p.Handle(context.Background(), core.CapabilityAuthenticate,
		core.Credentials{"username": "alice", "password": "pw"}, core.Options(nil), resp)
	require.NoError(t, err)
	assert.Equal(t, core.StatusSuccess, resp.Status)
}

func TestProvider_Handle_UnknownCapability(t *testing.T) {
	p := New(store.NewMemoryStore())
	_, err := p.Handle(context.Background(), "onContentPrepare")
	assert.ErrorIs(t, err, core.ErrUnknownCapability)
}

func TestProvider_Capabilities(t *testing.T) {
	p := New(store.NewMemoryStore())
	assert.Equal(t, "local", p.Name())
	assert.Equal(t,
		[]string{core.CapabilityAuthenticate, core.EventUserAuthorisation},
		p.Capabilities())
}
