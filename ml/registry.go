package ml

import (
	"context"
	"sort"
	"sync"

	"go.viam.com/ssd/logging"
)

// BackendConfig is everything a backend needs to load a model.
type BackendConfig struct {
	Files      ModelFiles
	Definition *Definition
	Width      int
	Height     int
	Device     Device
	Options    map[string]string
}

// InputShape returns the NCHW shape of the input tensor.
func (c BackendConfig) InputShape() []int {
	if c.Definition != nil && len(c.Definition.Input.Shape) == 4 {
		return c.Definition.Input.Shape
	}
	return []int{1, 3, c.Height, c.Width}
}

// BackendConstructor loads a model and returns a ready Predictor.
type BackendConstructor func(ctx context.Context, cfg BackendConfig, logger logging.Logger) (Predictor, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]BackendConstructor{}
)

// RegisterBackend makes a backend available under name. It is meant to be called from init
// and panics on duplicate names.
func RegisterBackend(name string, constructor BackendConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic("ml backend " + name + " registered twice")
	}
	registry[name] = constructor
}

// LookupBackend returns the constructor registered under name.
func LookupBackend(name string) (BackendConstructor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// RegisteredBackends lists the registered backend names in order.
func RegisteredBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
