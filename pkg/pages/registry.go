package pages

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formtoggle/pkg/controller"
)

// ErrPageNotFound is returned by Get for unknown page names.
var ErrPageNotFound = errors.New("pages: page not found")

// Registry stores page configurations by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]controller.Config
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]controller.Config)}
}

// Default returns a registry holding the built-in pages.
func Default() *Registry {
	r := NewRegistry()
	for _, cfg := range All() {
		r.MustRegister(cfg)
	}
	return r
}

// Register validates cfg and adds it under cfg.Name. Duplicate names return
// an error.
func (r *Registry) Register(cfg controller.Config) error {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return fmt.Errorf("pages: page name is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("pages: register %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[name]; exists {
		return fmt.Errorf("pages: page %q already registered", name)
	}
	r.pages[name] = cfg.Clone()
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(cfg controller.Config) {
	if err := r.Register(cfg); err != nil {
		panic(err)
	}
}

// Get retrieves a copy of a page configuration by name. Editing the result
// does not change the registered page.
func (r *Registry) Get(name string) (controller.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.pages[name]
	if !ok {
		return controller.Config{}, fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}
	return cfg.Clone(), nil
}

// List returns the registered page names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a page is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pages[name]
	return ok
}
