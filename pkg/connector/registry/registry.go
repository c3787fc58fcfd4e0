// Package registry manages connector registration and instantiation.
// Format packages register a factory from an init function; callers
// open connectors by format name without importing the format package
// directly.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dataforge-io/tabconnect/pkg/config"
	"github.com/dataforge-io/tabconnect/pkg/connector/core"
	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/logger"
)

// Factory is a function that creates connector instances.
// It takes a Config and returns a configured Connector or an error.
type Factory func(cfg *config.Config) (core.Connector, error)

// Registry manages connector factories keyed by format name.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return NewRegistryWithLogger(logger.With(zap.String("component", "connector_registry")))
}

// NewRegistryWithLogger creates a registry that logs through the given logger
func NewRegistryWithLogger(log *zap.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    log,
	}
}

// Register registers a connector factory for a format
func (r *Registry) Register(format string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "connector format %s already registered", format)
	}

	r.factories[format] = factory
	r.logger.Debug("connector registered", zap.String("format", format))
	return nil
}

// Open creates a connector for the format named in cfg
func (r *Registry) Open(cfg *config.Config) (core.Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory, exists := r.factories[cfg.Format]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "connector format %s not found", cfg.Format)
	}

	conn, err := factory(cfg)
	if err != nil {
		// Keep the factory's error type visible; an option error from a
		// variant constructor must not report as a config error.
		return nil, errors.Wrap(err, errors.TypeOf(err), "failed to create connector for format "+cfg.Format)
	}

	return conn, nil
}

// List returns the registered format names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if a format is registered
func (r *Registry) Has(format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[format]
	return exists
}

// Clear removes all registered factories (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[string]Factory)
}

// Global registry functions

// Register registers a connector factory in the global registry
func Register(format string, factory Factory) error {
	return globalRegistry.Register(format, factory)
}

// Open creates a connector from the global registry
func Open(cfg *config.Config) (core.Connector, error) {
	return globalRegistry.Open(cfg)
}

// List returns registered formats from the global registry
func List() []string {
	return globalRegistry.List()
}

// Has checks if a format is registered in the global registry
func Has(format string) bool {
	return globalRegistry.Has(format)
}

// GetRegistry returns the global registry instance.
func GetRegistry() *Registry {
	return globalRegistry
}
