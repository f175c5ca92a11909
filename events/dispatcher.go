// Package events provides the broadcast bus the authorization step fans
// out on. The Bus contract matches an external event-broadcast service;
// Dispatcher is the in-process default built over the observer registry.
package events

import (
	"context"

	"github.com/google/uuid"

	"github.com/go-authgate/authchain/registry"
)

// Result is one listener's verdict from a broadcast. Value and Err carry
// whatever the listener returned, with no interpretation by the bus.
type Result struct {
	// BroadcastID groups the results of one Broadcast call.
	BroadcastID string

	// Listener names the observer that produced this result: the
	// provider's name, or the event name for ad-hoc handlers.
	Listener string

	Value any
	Err   error
}

// Bus broadcasts an event to every registered listener and returns their
// results in listener registration order.
type Bus interface {
	Broadcast(ctx context.Context, event string, args ...any) []Result
}

// Compile-time interface check.
var _ Bus = (*Dispatcher)(nil)

// Dispatcher dispatches broadcasts over a registry's capability index.
// Every listener always runs: a listener error is carried in its Result
// and never stops the remaining listeners.
type Dispatcher struct {
	registry *registry.Registry
}

// NewDispatcher returns a Dispatcher reading listeners from reg.
func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Broadcast implements Bus.
func (d *Dispatcher) Broadcast(ctx context.Context, event string, args ...any) []Result {
	id := uuid.NewString()

	observers := d.registry.Lookup(event)
	results := make([]Result, 0, len(observers))
	for _, obs := range observers {
		res := Result{BroadcastID: id}
		switch {
		case obs.Handler() != nil:
			res.Listener = obs.Event()
			res.Value, res.Err = obs.Handler()(ctx, args...)
		case obs.Provider() != nil:
			res.Listener = obs.Provider().Name()
			res.Value, res.Err = obs.Provider().Handle(ctx, event, args...)
		}
		results = append(results, res)
	}
	return results
}
