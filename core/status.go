package core

// Status classifies the outcome of one authentication attempt.
//
// The values are bit-flag shaped so they round-trip through configuration
// systems that store them numerically, but exactly one status is meaningful
// on a response at any time: the last provider to write wins, and
// StatusSuccess halts the provider scan immediately.
type Status int

const (
	// StatusNone means no provider has written an outcome yet. Callers
	// must treat it as equivalent to StatusFailure.
	StatusNone Status = 0

	// StatusSuccess means the credentials are valid and login may proceed.
	StatusSuccess Status = 1

	// StatusCancel is reserved. No provider currently emits it.
	StatusCancel Status = 2

	// StatusFailure means the credentials are invalid.
	StatusFailure Status = 4

	// StatusExpired means the account exists but has expired. Login must
	// be prevented.
	StatusExpired Status = 8

	// StatusDenied means the account is explicitly denied. Login must be
	// prevented.
	StatusDenied Status = 16

	// StatusUnknown means the account is not recognized by the provider.
	// It neither permits nor prevents login.
	StatusUnknown Status = 32
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusSuccess:
		return "success"
	case StatusCancel:
		return "cancel"
	case StatusFailure:
		return "failure"
	case StatusExpired:
		return "expired"
	case StatusDenied:
		return "denied"
	case StatusUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// PreventsLogin returns true for statuses that must block a login even if
// another verdict reported success.
func (s Status) PreventsLogin() bool {
	return s == StatusExpired || s == StatusDenied
}
