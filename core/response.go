package core

// Response holds the outcome of one authentication attempt.
//
// A fresh Response is allocated at the start of each Authenticate call and
// passed by pointer to every provider invoked during that call; providers
// mutate it in place. It is returned to the caller and then discarded —
// never reused across calls, never persisted, and never shared between
// concurrent calls.
type Response struct {
	// Status is the authentication outcome. StatusNone until some
	// provider writes it.
	Status Status

	// Type identifies which provider produced a success. If the
	// succeeding provider leaves it empty, the coordinator fills it in
	// from the provider's own name.
	Type string

	// Username is the authenticated account name. Defaulted from the
	// submitted credentials if no provider sets it.
	Username string

	// FullName is the account display name. Defaulted from the submitted
	// username (not a display name) if no provider sets it.
	FullName string

	// Password is an opaque handle for the verified secret, in practice a
	// hash — never the plaintext once a provider has authenticated.
	// Defaulted from the raw submitted password if no provider sets it.
	Password string

	// Message carries an optional human-readable error description.
	Message string
}
