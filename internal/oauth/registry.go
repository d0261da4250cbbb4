package oauth

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownProvider indicates no flow is registered for a provider
// identifier. Adding a provider means registering a Flow value here, not
// subclassing anything.
var ErrUnknownProvider = errors.New("no OAuth flow registered for provider")

// Registry is a lookup table of Flow implementations keyed by provider
// identifier. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	flows map[string]Flow
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[string]Flow)}
}

// Register adds or replaces the flow for a provider identifier.
func (r *Registry) Register(provider string, flow Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[provider] = flow
}

// Get returns the flow for a provider identifier.
func (r *Registry) Get(provider string) (Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flow, ok := r.flows[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return flow, nil
}

// Providers returns the registered provider identifiers.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.flows))
	for p := range r.flows {
		out = append(out, p)
	}
	return out
}
