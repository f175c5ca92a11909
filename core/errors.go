package core

import "errors"

var (
	// ErrUnknownCapability is returned by a provider's Handle when asked
	// for a capability it did not declare.
	ErrUnknownCapability = errors.New("unknown capability")
)
