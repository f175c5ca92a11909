// Package registry implements the observer collection behind the
// authentication and authorization dispatch: providers attach once at
// startup, get indexed by the capability names they declare, and are looked
// up in attach order at dispatch time.
package registry

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-authgate/authchain/core"
)

// HandlerFunc is the ad-hoc observer shape: a single invocable handler
// bound to one event name, with no identity beyond that pair.
type HandlerFunc func(ctx context.Context, args ...any) (any, error)

// Observer is the tagged union of the two registration shapes a registry
// accepts. Construct one with ForProvider or ForHandler; the zero Observer
// is malformed and attaching it is a no-op.
type Observer struct {
	provider core.Provider
	event    string
	handler  HandlerFunc
}

// ForProvider wraps a capability-declaring provider as an Observer.
func ForProvider(p core.Provider) Observer {
	return Observer{provider: p}
}

// ForHandler wraps a single handler bound to one event name as an Observer.
func ForHandler(event string, fn HandlerFunc) Observer {
	return Observer{event: event, handler: fn}
}

// Provider returns the wrapped provider, or nil for the handler variant.
func (o Observer) Provider() core.Provider { return o.provider }

// Event returns the bound event name for the handler variant, or "".
func (o Observer) Event() string { return o.event }

// Handler returns the wrapped handler, or nil for the provider variant.
func (o Observer) Handler() HandlerFunc { return o.handler }

// entry is one attached observer under its stable slot key. Keys are
// insertion-order monotonic and survive removals of other entries.
type entry struct {
	key int
	obs Observer
}

// baselineCapabilities are the lifecycle capability names shared by every
// provider of the plugin family. They carry no dispatchable behavior and
// are never indexed.
var baselineCapabilities = map[string]struct{}{
	"init":  {},
	"close": {},
}

// Registry holds the attached observers and a reverse index from
// lower-cased capability name to the stable keys of the observers that
// declared it, in attach order.
//
// Registration is expected to happen once at startup, but the registry is
// guarded by a read-mostly lock so a coordinator shared across goroutines
// stays safe.
type Registry struct {
	mu      sync.RWMutex
	nextKey int
	entries []entry
	index   map[string][]int
	state   *core.Response
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string][]int)}
}

// Attach registers an observer.
//
// Malformed input — a zero Observer, a nil handler, an empty event name —
// is a silent no-op, as is a duplicate registration: a provider whose
// concrete type is already attached, or an (event, handler) pair already
// present. Silent no-ops are the documented failure behavior; there is no
// success signal to the caller.
func (r *Registry) Attach(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case obs.provider != nil:
		r.attachProvider(obs)
	case obs.handler != nil && obs.event != "":
		r.attachHandler(obs)
	}
}

func (r *Registry) attachProvider(obs Observer) {
	// At most one instance per concrete provider type.
	t := reflect.TypeOf(obs.provider)
	for _, e := range r.entries {
		if e.obs.provider != nil && reflect.TypeOf(e.obs.provider) == t {
			return
		}
	}

	key := r.insert(obs)
	for _, name := range obs.provider.Capabilities() {
		name = strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, shared := baselineCapabilities[name]; shared {
			continue
		}
		r.index[name] = append(r.index[name], key)
	}
}

func (r *Registry) attachHandler(obs Observer) {
	ptr := reflect.ValueOf(obs.handler).Pointer()
	for _, e := range r.entries {
		if e.obs.handler != nil && e.obs.event == obs.event &&
			reflect.ValueOf(e.obs.handler).Pointer() == ptr {
			return
		}
	}

	key := r.insert(obs)
	name := strings.ToLower(obs.event)
	r.index[name] = append(r.index[name], key)
}

func (r *Registry) insert(obs Observer) int {
	key := r.nextKey
	r.nextKey++
	r.entries = append(r.entries, entry{key: key, obs: obs})
	return key
}

// Detach removes an observer previously registered. The provider variant
// matches by concrete type (attach guarantees at most one instance per
// type); the handler variant matches by the exact (event, handler) pair.
// Returns whether a removal occurred. Surviving entries keep their slot
// keys and relative order.
func (r *Registry) Detach(obs Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	switch {
	case obs.provider != nil:
		t := reflect.TypeOf(obs.provider)
		for i, e := range r.entries {
			if e.obs.provider != nil && reflect.TypeOf(e.obs.provider) == t {
				idx = i
				break
			}
		}
	case obs.handler != nil && obs.event != "":
		ptr := reflect.ValueOf(obs.handler).Pointer()
		for i, e := range r.entries {
			if e.obs.handler != nil && e.obs.event == obs.event &&
				reflect.ValueOf(e.obs.handler).Pointer() == ptr {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return false
	}

	key := r.entries[idx].key
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	for name, keys := range r.index {
		for i, k := range keys {
			if k == key {
				r.index[name] = append(keys[:i], keys[i+1:]...)
				break
			}
		}
		if len(r.index[name]) == 0 {
			delete(r.index, name)
		}
	}
	return true
}

// Lookup returns the observers that declared the given capability, in
// attach order. The capability name is matched case-insensitively.
func (r *Registry) Lookup(capability string) []Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.index[strings.ToLower(capability)]
	if len(keys) == 0 {
		return nil
	}
	out := make([]Observer, 0, len(keys))
	for _, key := range keys {
		for _, e := range r.entries {
			if e.key == key {
				out = append(out, e.obs)
				break
			}
		}
	}
	return out
}

// Len returns the number of attached observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// State returns the last outcome recorded by the coordinator. Exposed for
// generic observer compatibility; the authentication flow itself never
// reads it back.
func (r *Registry) State() *core.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SetState records the coordinator's last-known outcome.
func (r *Registry) SetState(resp *core.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = resp
}
