package core

import "context"

// Provider family names understood by the loader.
const (
	FamilyAuthentication = "authentication"
	FamilyUser           = "user"
)

// Capability and event names with meaning to the orchestration core.
const (
	// CapabilityAuthenticate is the capability the authentication scan
	// dispatches on.
	CapabilityAuthenticate = "authenticate"

	// EventUserAuthorisation is the broadcast event carrying a completed
	// authentication response to every authorization listener.
	EventUserAuthorisation = "onUserAuthorisation"
)

// Credentials is the user-supplied credential set. At minimum it carries
// "username" and "password" entries; any additional fields are
// provider-specific and opaque to the coordinator.
type Credentials map[string]string

// Username returns the submitted username, or "" if absent.
func (c Credentials) Username() string { return c["username"] }

// Password returns the submitted password, or "" if absent.
func (c Credentials) Password() string { return c["password"] }

// Options carries provider hints. The coordinator passes it through
// unmodified and never inspects it.
type Options map[string]any

// Provider is the contract every pluggable provider satisfies.
//
// Capabilities declares the provider-specific capability names the registry
// indexes the provider under. A provider states exactly what it can
// handle; nothing is discovered by introspection.
//
// Handle is the uniform capability invocation used for broadcast dispatch.
// Providers switch on the event name and return ErrUnknownCapability for
// names they did not declare.
type Provider interface {
	Name() string
	Capabilities() []string
	Handle(ctx context.Context, event string, args ...any) (any, error)
}

// Authenticator is the typed contract for providers in the authentication
// family. Authenticate mutates resp in place — at minimum writing Status,
// and on success the identity fields. A non-nil error is an infrastructure
// fault, not a failed login: it aborts the whole scan and propagates to the
// coordinator's caller. Failed logins are reported through resp.Status.
type Authenticator interface {
	Provider
	Authenticate(ctx context.Context, creds Credentials, opts Options, resp *Response) error
}

// Descriptor identifies one configured provider within a family.
type Descriptor struct {
	Family string
	Type   string
	Name   string
	Params map[string]string
}

// Loader supplies the ordered provider configuration for a family.
// Discovery is outside this library; the coordinator only consumes the
// ordered descriptor list.
type Loader interface {
	// OrderedProviders returns the descriptors for a family in
	// configuration order. Earlier descriptors are tried first.
	OrderedProviders(family string) []Descriptor

	// EnsureLoaded makes sure a family's configuration is available.
	// It is idempotent and returns true iff at least one provider of the
	// family is configured.
	EnsureLoaded(family string) bool
}
