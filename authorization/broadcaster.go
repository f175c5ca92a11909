// Package authorization broadcasts a completed authentication response to
// every authorisation listener and returns their verdicts.
package authorization

import (
	"context"

	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/events"
	"github.com/go-authgate/authchain/metrics"
)

// Broadcaster forwards authorisation requests to the event bus.
type Broadcaster struct {
	loader   core.Loader
	bus      events.Bus
	recorder metrics.Recorder
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithRecorder replaces the default no-op metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Broadcaster) { b.recorder = r }
}

// New creates a Broadcaster over the given loader and bus.
func New(ld core.Loader, bus events.Bus, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		loader:   ld,
		bus:      bus,
		recorder: metrics.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Authorise asks every authorisation listener whether the authenticated
// user may log in.
//
// Unlike the authentication scan this never short-circuits: every listener
// runs, and the raw per-listener results come back uninterpreted and
// unaggregated, in listener registration order. Deciding what a mix of
// verdicts means is the caller's policy.
func (b *Broadcaster) Authorise(
	ctx context.Context,
	resp *core.Response,
	opts core.Options,
) []events.Result {
	b.loader.EnsureLoaded(core.FamilyUser)
	b.loader.EnsureLoaded(core.FamilyAuthentication)

	results := b.bus.Broadcast(ctx, core.EventUserAuthorisation, resp, opts)
	b.recorder.RecordAuthorisationBroadcast(len(results))
	return results
}
