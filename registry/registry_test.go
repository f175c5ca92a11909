package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-authgate/authchain/core"
)

type fakeProvider struct {
	name string
	caps []string
}

func (f *fakeProvider) Name() string           { return f.name }
func (f *fakeProvider) Capabilities() []string { return f.caps }
func (f *fakeProvider) Handle(ctx context.Context, event string, args ...any) (any, error) {
	return f.name, nil
}

type otherProvider struct {
	fakeProvider
}

func lookupNames(t *testing.T, r *Registry, capability string) []string {
	t.Helper()
	var names []string
	for _, obs := range r.Lookup(capability) {
		if p := obs.Provider(); p != nil {
			names = append(names, p.Name())
		} else {
			names = append(names, obs.Event())
		}
	}
	return names
}

func TestRegistry_AttachProvider_IndexesCapabilities(t *testing.T) {
	r := New()
	r.Attach(ForProvider(&fakeProvider{name: "p1", caps: []string{"Authenticate", "onUserAuthorisation"}}))

	assert.Equal(t, 1, r.Len())
	// Capability lookup is case-insensitive.
	assert.Equal(t, []string{"p1"}, lookupNames(t, r, "authenticate"))
	assert.Equal(t, []string{"p1"}, lookupNames(t, r, "AUTHENTICATE"))
	assert.Equal(t, []string{"p1"}, lookupNames(t, r, "onuserauthorisation"))
}

func TestRegistry_AttachProvider_SkipsBaselineCapabilities(t *testing.T) {
	r := New()
	r.Attach(ForProvider(&fakeProvider{name: "p1", caps: []string{"init", "close", "", "authenticate"}}))

	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.Lookup("init"))
	assert.Empty(t, r.Lookup("close"))
	assert.Equal(t, []string{"p1"}, lookupNames(t, r, "authenticate"))
}

func TestRegistry_AttachProvider_DedupByConcreteType(t *testing.T) {
	r := New()
	r.Attach(ForProvider(&fakeProvider{name: "first", caps: []string{"authenticate"}}))
	// Distinct instance, same concrete type: silent no-op.
	r.Attach(ForProvider(&fakeProvider{name: "second", caps: []string{"authenticate"}}))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"first"}, lookupNames(t, r, "authenticate"))

	// A different concrete type attaches fine.
	r.Attach(ForProvider(&otherProvider{fakeProvider{name: "other", caps: []string{"authenticate"}}}))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"first", "other"}, lookupNames(t, r, "authenticate"))
}

func TestRegistry_AttachHandler_DedupByPair(t *testing.T) {
	r := New()
	calls := 0
	fn := func(ctx context.Context, args ...any) (any, error) {
		calls++
		return nil, nil
	}

	r.Attach(ForHandler("onUserAuthorisation", fn))
	r.Attach(ForHandler("onUserAuthorisation", fn)) // same pair: no-op
	assert.Equal(t, 1, r.Len())

	// Same handler under a different event name is a distinct observer.
	r.Attach(ForHandler("onOtherEvent", fn))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Attach_MalformedIsNoOp(t *testing.T) {
	r := New()
	r.Attach(Observer{})                   // zero value
	r.Attach(ForHandler("event", nil))     // nil handler
	r.Attach(ForHandler("", func(ctx context.Context, args ...any) (any, error) { return nil, nil }))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_LookupOrder_FollowsAttachOrder(t *testing.T) {
	r := New()
	r.Attach(ForProvider(&fakeProvider{name: "a", caps: []string{"authenticate"}}))
	r.Attach(ForHandler("authenticate", func(ctx context.Context, args ...any) (any, error) { return nil, nil }))
	r.Attach(ForProvider(&otherProvider{fakeProvider{name: "b", caps: []string{"authenticate"}}}))

	assert.Equal(t, []string{"a", "authenticate", "b"}, lookupNames(t, r, "authenticate"))
}

func TestRegistry_Detach_PurgesIndexAndPreservesOthers(t *testing.T) {
	r := New()
	first := &fakeProvider{name: "first", caps: []string{"authenticate", "onUserAuthorisation"}}
	second := &otherProvider{fakeProvider{name: "second", caps: []string{"authenticate"}}}
	fn := func(ctx context.Context, args ...any) (any, error) { return nil, nil }

	r.Attach(ForProvider(first))
	r.Attach(ForProvider(second))
	r.Attach(ForHandler("authenticate", fn))
	require.Equal(t, 3, r.Len())

	removed := r.Detach(ForProvider(first))
	assert.True(t, removed)
	assert.Equal(t, 2, r.Len())

	// None of the detached observer's capabilities resolve to it anymore.
	assert.Empty(t, r.Lookup("onUserAuthorisation"))
	// The survivors keep their relative order.
	assert.Equal(t, []string{"second", "authenticate"}, lookupNames(t, r, "authenticate"))

	// Detaching again finds nothing and leaves state untouched.
	assert.False(t, r.Detach(ForProvider(first)))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Detach_HandlerVariant(t *testing.T) {
	r := New()
	fn1 := func(ctx context.Context, args ...any) (any, error) { return "one", nil }
	fn2 := func(ctx context.Context, args ...any) (any, error) { return "two", nil }

	r.Attach(ForHandler("event", fn1))
	r.Attach(ForHandler("event", fn2))
	require.Equal(t, 2, r.Len())

	// A pair that was never attached does not match.
	assert.False(t, r.Detach(ForHandler("other", fn1)))

	assert.True(t, r.Detach(ForHandler("event", fn1)))
	assert.Equal(t, 1, r.Len())
	require.Len(t, r.Lookup("event"), 1)

	got, err := r.Lookup("event")[0].Handler()(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestRegistry_State(t *testing.T) {
	r := New()
	assert.Nil(t, r.State())

	resp := &core.Response{Status: core.StatusSuccess, Username: "alice"}
	r.SetState(resp)
	assert.Same(t, resp, r.State())
}
