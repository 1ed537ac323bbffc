// Package registry wires checker names to their factories so the CLI and the
// web server can instantiate checkers uniformly.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

// Checker is one self-contained analysis over a target. A run collects
// findings; it only returns an error when the run itself could not proceed.
type Checker interface {
	Name() string
	Run(ctx context.Context, target domain.Target) (*domain.Result, error)
}

// Factory creates a Checker from the shared configuration.
type Factory func(cfg settings.Config, logger zerolog.Logger) (Checker, error)

// Registry manages checker factories.
type Registry interface {
	// Register adds a new checker factory.
	Register(name string, factory Factory) error
	// Create instantiates the named checker with the provided configuration.
	Create(name string, cfg settings.Config, logger zerolog.Logger) (Checker, error)
	// ListCheckers returns the registered checker names, sorted.
	ListCheckers() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry pre-populated with the given factories.
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{factories: make(map[string]Factory, len(factories))}
	for name, factory := range factories {
		r.factories[name] = factory
	}
	return r
}

func (r *registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("checker name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("checker %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(name string, cfg settings.Config, logger zerolog.Logger) (Checker, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("checker %q is not registered", name)
	}

	return factory(cfg, logger)
}

func (r *registry) ListCheckers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
