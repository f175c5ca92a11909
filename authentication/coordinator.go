// Package authentication runs the ordered provider scan that turns
// submitted credentials into a single authentication response.
package authentication

import (
	"context"
	"fmt"
	"time"

	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/loader"
	"github.com/go-authgate/authchain/metrics"
	"github.com/go-authgate/authchain/registry"
)

// Coordinator asks the configured authentication providers, in order,
// whether a credential set is valid, and aggregates the outcome into one
// response.
//
// Construct exactly one Coordinator at process start and pass it to
// callers; there is no process-wide instance.
type Coordinator struct {
	loader   core.Loader
	catalog  *loader.Catalog
	registry *registry.Registry
	log      core.Logger
	recorder metrics.Recorder
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger replaces the default standard-library warning logger.
func WithLogger(l core.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithRecorder replaces the default no-op metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// New creates a Coordinator over the given loader, catalog, and registry.
// The authentication provider family is loaded up front; having zero
// providers configured is logged as a warning but is a valid, if useless,
// state.
func New(ld core.Loader, cat *loader.Catalog, reg *registry.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		loader:   ld,
		catalog:  cat,
		registry: reg,
		log:      core.DefaultLogger(),
		recorder: metrics.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = registry.New()
	}

	if !c.loader.EnsureLoaded(core.FamilyAuthentication) {
		c.log.Warnf("no authentication providers configured")
	}
	return c
}

// Registry returns the observer registry the coordinator attaches resolved
// providers to.
func (c *Coordinator) Registry() *registry.Registry { return c.registry }

// Authenticate runs the provider scan for one credential set.
//
// Providers run in loader order and mutate a fresh response in place. The
// scan stops at the first provider that reports StatusSuccess; EXPIRED and
// DENIED do not halt it, so a later provider may still vouch for the user.
// A descriptor whose provider cannot be constructed is logged and skipped.
//
// "No provider succeeded" is not an error: the response comes back with
// whatever status the last provider left (StatusNone if none ran) and the
// username, fullname, and password fields defaulted from the submitted
// credentials. A non-nil error means a provider faulted, not that the
// password was wrong — callers must branch on resp.Status.
func (c *Coordinator) Authenticate(
	ctx context.Context,
	creds core.Credentials,
	opts core.Options,
) (*core.Response, error) {
	resp := &core.Response{}

	for _, desc := range c.loader.OrderedProviders(core.FamilyAuthentication) {
		p, err := c.catalog.Resolve(desc)
		if err != nil {
			c.log.Warnf("authentication provider %q unavailable: %v", desc.Type, err)
			c.recorder.RecordProviderResolutionFailure(desc.Type)
			continue
		}
		auth, ok := p.(core.Authenticator)
		if !ok {
			c.log.Warnf("authentication provider %q does not implement the authenticate capability", desc.Type)
			c.recorder.RecordProviderResolutionFailure(desc.Type)
			continue
		}

		// Duplicate attach across calls is a no-op.
		c.registry.Attach(registry.ForProvider(p))

		start := time.Now()
		if err := auth.Authenticate(ctx, creds, opts, resp); err != nil {
			c.recorder.RecordAuthAttempt(desc.Type, false, time.Since(start))
			return resp, fmt.Errorf("authentication provider %q: %w", desc.Type, err)
		}
		c.recorder.RecordAuthAttempt(desc.Type, resp.Status == core.StatusSuccess, time.Since(start))

		if resp.Status == core.StatusSuccess {
			if resp.Type == "" {
				resp.Type = displayName(p, desc)
			}
			break
		}
	}

	// The caller can always read these back, even when no provider ran.
	if resp.Username == "" {
		resp.Username = creds.Username()
	}
	if resp.FullName == "" {
		resp.FullName = creds.Username()
	}
	if resp.Password == "" {
		resp.Password = creds.Password()
	}

	c.registry.SetState(resp)
	return resp, nil
}

// displayName picks the succeeding provider's name for the response type:
// an internal display name when the provider exposes one, else the
// configured name, else the provider's registered name.
func displayName(p core.Provider, d core.Descriptor) string {
	if dn, ok := p.(interface{ DisplayName() string }); ok {
		if name := dn.DisplayName(); name != "" {
			return name
		}
	}
	if d.Name != "" {
		return d.Name
	}
	return p.Name()
}
