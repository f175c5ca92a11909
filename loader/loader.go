// Package loader supplies provider configuration and construction. The
// StaticLoader holds the ordered descriptor lists per family; the Catalog
// maps a descriptor's (family, type) to a factory that builds the concrete
// provider.
package loader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-authgate/authchain/core"
)

// ErrNoFactory is returned by Resolve when no implementation is registered
// for a descriptor's (family, type). The coordinator treats it as a
// recoverable per-provider failure.
var ErrNoFactory = errors.New("no provider implementation registered")

// Factory builds a concrete provider from its descriptor. Construction may
// fail; the caller decides whether that is fatal.
type Factory func(d core.Descriptor) (core.Provider, error)

// Catalog maps (family, type) pairs to provider factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

func catalogKey(family, providerType string) string {
	return family + "/" + providerType
}

// Register installs the factory for a (family, type) pair, replacing any
// previous registration.
func (c *Catalog) Register(family, providerType string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[catalogKey(family, providerType)] = f
}

// Resolve constructs the provider a descriptor names. Returns ErrNoFactory
// (wrapped) when the type has no registered implementation.
func (c *Catalog) Resolve(d core.Descriptor) (core.Provider, error) {
	c.mu.RLock()
	f := c.factories[catalogKey(d.Family, d.Type)]
	c.mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoFactory, d.Family, d.Type)
	}
	return f(d)
}

// Compile-time interface check.
var _ core.Loader = (*StaticLoader)(nil)

// StaticLoader is a core.Loader over fixed, configuration-supplied
// descriptor lists. Order of Add calls within a family is the provider
// scan order.
type StaticLoader struct {
	mu       sync.RWMutex
	families map[string][]core.Descriptor
}

// NewStaticLoader returns an empty loader.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{families: make(map[string][]core.Descriptor)}
}

// Add appends a descriptor to its family's ordered list.
func (l *StaticLoader) Add(d core.Descriptor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.families[d.Family] = append(l.families[d.Family], d)
}

// OrderedProviders implements core.Loader.
func (l *StaticLoader) OrderedProviders(family string) []core.Descriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.families[family]
	if len(src) == 0 {
		return nil
	}
	out := make([]core.Descriptor, len(src))
	copy(out, src)
	return out
}

// EnsureLoaded implements core.Loader. Descriptors are held in memory, so
// this only reports whether the family has at least one provider.
func (l *StaticLoader) EnsureLoaded(family string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.families[family]) > 0
}
