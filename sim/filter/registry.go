package filter

import (
	"fmt"
	"plugin"
	"sync"
)

// Factory builds an Executor from a node's ambient properties and the uid
// factory it should use to mint any messages it originates. Both the
// static registry and the dynamic loader produce factories with this
// shape, so a node never has to know which mechanism supplied its filter.
type Factory func(properties map[string]string, uidFactory func() uint64) (Executor, error)

// Registry is a static, name-keyed table of filter factories — the
// substitute for dynamic loading used whenever a filter implementation is
// compiled directly into the binary rather than shipped as a .so.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds name -> factory. Re-registering a name overwrites it,
// which tests rely on to install fakes.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Build looks up name and invokes its factory.
func (r *Registry) Build(name string, properties map[string]string, uidFactory func() uint64) (Executor, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("meshtrace/filter: no registered filter named %q", name)
	}
	return f(properties, uidFactory)
}

// DynamicConstructorSymbol is the exported name a Go plugin (.so) must
// define, mirroring the filter plugin contract's constructor entry point.
// A plugin package typically looks like:
//
//	func NewWithEnvoyProperties(properties map[string]string, uidFactory func() uint64) (filter.Executor, error) { ... }
const DynamicConstructorSymbol = "NewWithEnvoyProperties"

// LoadDynamic opens a Go plugin (.so) at path and resolves its
// NewWithEnvoyProperties symbol, which must have the type
// func(map[string]string, func() uint64) (Executor, error). This is the
// dynamic-loading half of the plugin wrapper's contract; Registry is the
// static half, and the two are interchangeable from the PluginWrapper's
// point of view.
func LoadDynamic(path string, properties map[string]string, uidFactory func() uint64) (Executor, error) {
	lib, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshtrace/filter: opening plugin %s: %w", path, err)
	}
	sym, err := lib.Lookup(DynamicConstructorSymbol)
	if err != nil {
		return nil, fmt.Errorf("meshtrace/filter: plugin %s missing %s: %w", path, DynamicConstructorSymbol, err)
	}
	constructor, ok := sym.(func(map[string]string, func() uint64) (Executor, error))
	if !ok {
		return nil, fmt.Errorf("meshtrace/filter: plugin %s symbol %s has the wrong type", path, DynamicConstructorSymbol)
	}
	return constructor(properties, uidFactory)
}
