package authorization

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/events"
	"github.com/go-authgate/authchain/loader"
	"github.com/go-authgate/authchain/registry"
)

type recordingLoader struct {
	*loader.StaticLoader
	ensured []string
}

func (l *recordingLoader) EnsureLoaded(family string) bool {
	l.ensured = append(l.ensured, family)
	return l.StaticLoader.EnsureLoaded(family)
}

func TestBroadcaster_Authorise_AllListenersRun(t *testing.T) {
	reg := registry.New()

	// Three listeners with three different verdicts, one of them failing.
	reg.Attach(registry.ForHandler(core.EventUserAuthorisation,
		func(ctx context.Context, args ...any) (any, error) {
			return &core.Response{Status: core.StatusSuccess}, nil
		}))
	reg.Attach(registry.ForHandler(core.EventUserAuthorisation,
		func(ctx context.Context, args ...any) (any, error) {
			return &core.Response{Status: core.StatusDenied}, nil
		}))
	reg.Attach(registry.ForHandler(core.EventUserAuthorisation,
		func(ctx context.Context, args ...any) (any, error) {
			return nil, errors.New("listener broke")
		}))

	ld := &recordingLoader{StaticLoader: loader.NewStaticLoader()}
	b := New(ld, events.NewDispatcher(reg))

	resp := &core.Response{Status: core.StatusSuccess, Username: "alice"}
	results := b.Authorise(context.Background(), resp, core.Options{"client": "web"})

	// Never short-circuits: one result per registered listener, denial or
	// error notwithstanding.
	require.Len(t, results, 3)
	assert.Equal(t, core.StatusSuccess, results[0].Value.(*core.Response).Status)
	assert.Equal(t, core.StatusDenied, results[1].Value.(*core.Response).Status)
	assert.Error(t, results[2].Err)

	// Both provider families are ensured before the broadcast.
	assert.Equal(t, []string{core.FamilyUser, core.FamilyAuthentication}, ld.ensured)
}

func TestBroadcaster_Authorise_NoListeners(t *testing.T) {
	b := New(loader.NewStaticLoader(), events.NewDispatcher(registry.New()))
	results := b.Authorise(context.Background(), &core.Response{}, nil)
	assert.Empty(t, results)
}
