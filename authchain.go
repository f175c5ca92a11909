package authchain

import (
	"context"
	"fmt"

	"github.com/go-authgate/authchain/authentication"
	"github.com/go-authgate/authchain/authorization"
	"github.com/go-authgate/authchain/config"
	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/events"
	"github.com/go-authgate/authchain/loader"
	"github.com/go-authgate/authchain/metrics"
	"github.com/go-authgate/authchain/providers/httpapi"
	"github.com/go-authgate/authchain/providers/local"
	"github.com/go-authgate/authchain/providers/token"
	"github.com/go-authgate/authchain/registry"
	"github.com/go-authgate/authchain/store"
	"github.com/go-authgate/authchain/throttle"
)

// Chain holds all initialized components.
type Chain struct {
	Config *config.Config

	// Core infrastructure
	Store    store.UserStore
	Registry *registry.Registry
	Catalog  *loader.Catalog
	Loader   *loader.StaticLoader
	Bus      events.Bus
	Recorder metrics.Recorder

	// Orchestration
	Coordinator *authentication.Coordinator
	Broadcaster *authorization.Broadcaster
}

// New wires a Chain from configuration: the user store, the provider
// catalog and loader, the observer registry with its authorisation
// listeners, and the coordinator/broadcaster pair on top.
func New(ctx context.Context, cfg *config.Config) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Chain{
		Config:   cfg,
		Recorder: metrics.Init(cfg.MetricsEnabled),
	}

	if err := c.initializeStore(ctx); err != nil {
		return nil, err
	}
	c.initializeProviders()
	c.initializeOrchestration()

	return c, nil
}

func (c *Chain) initializeStore(ctx context.Context) error {
	switch c.Config.UserStoreType {
	case config.UserStoreRedis:
		s, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     c.Config.RedisAddr,
			Password: c.Config.RedisPassword,
			DB:       c.Config.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize redis user store: %w", err)
		}
		c.Store = s
	default:
		c.Store = store.NewMemoryStore()
	}
	return nil
}

// initializeProviders registers the factories and descriptor lists for
// both provider families.
func (c *Chain) initializeProviders() {
	c.Catalog = loader.NewCatalog()
	c.Loader = loader.NewStaticLoader()

	localFactory := func(d core.Descriptor) (core.Provider, error) {
		return local.New(c.Store), nil
	}
	c.Catalog.Register(core.FamilyAuthentication, config.ProviderTypeLocal, localFactory)
	c.Catalog.Register(core.FamilyUser, config.ProviderTypeLocal, localFactory)

	c.Catalog.Register(core.FamilyAuthentication, config.ProviderTypeHTTPAPI,
		func(d core.Descriptor) (core.Provider, error) {
			return httpapi.New(c.Config)
		})

	c.Catalog.Register(core.FamilyAuthentication, config.ProviderTypeToken,
		func(d core.Descriptor) (core.Provider, error) {
			return token.New(c.Config.JWTSecret), nil
		})

	for _, d := range c.Config.AuthenticationDescriptors() {
		c.Loader.Add(d)
	}
	for _, d := range c.Config.UserDescriptors() {
		c.Loader.Add(d)
	}
}

func (c *Chain) initializeOrchestration() {
	c.Registry = registry.New()
	c.Bus = events.NewDispatcher(c.Registry)

	c.Coordinator = authentication.New(c.Loader, c.Catalog, c.Registry,
		authentication.WithRecorder(c.Recorder))
	c.Broadcaster = authorization.New(c.Loader, c.Bus,
		authorization.WithRecorder(c.Recorder))

	// Authorisation listeners attach up front so the broadcast sees them
	// even before the first authenticate call.
	log := core.DefaultLogger()
	for _, d := range c.Loader.OrderedProviders(core.FamilyUser) {
		p, err := c.Catalog.Resolve(d)
		if err != nil {
			log.Warnf("authorisation provider %q unavailable: %v", d.Type, err)
			continue
		}
		c.Registry.Attach(registry.ForProvider(p))
	}

	if c.Config.ThrottleEnabled {
		guard := throttle.New(c.Config.ThrottleLimit, c.Config.ThrottlePeriod)
		c.Registry.Attach(registry.ForHandler(core.EventUserAuthorisation, guard.Authorise))
	}
}

// Authenticate runs the ordered provider scan for one credential set.
func (c *Chain) Authenticate(ctx context.Context, creds core.Credentials, opts core.Options) (*core.Response, error) {
	return c.Coordinator.Authenticate(ctx, creds, opts)
}

// Authorise broadcasts the response to every authorisation listener and
// returns their raw verdicts.
func (c *Chain) Authorise(ctx context.Context, resp *core.Response, opts core.Options) []events.Result {
	return c.Broadcaster.Authorise(ctx, resp, opts)
}

// Close releases the chain's resources.
func (c *Chain) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
