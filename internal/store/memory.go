package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory ConfigStore for tests and the CLI.
type Memory struct {
	mu      sync.RWMutex
	configs map[uuid.UUID]map[string]any
	params  map[uuid.UUID]*ProviderParams
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		configs: make(map[uuid.UUID]map[string]any),
		params:  make(map[uuid.UUID]*ProviderParams),
	}
}

// PutHydratedConfig stores a hydrated configuration for a connector instance.
func (m *Memory) PutHydratedConfig(connectorID uuid.UUID, config map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[connectorID] = config
}

// HydratedConfig implements ConfigStore.
func (m *Memory) HydratedConfig(_ context.Context, connectorID uuid.UUID) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	config, ok := m.configs[connectorID]
	if !ok {
		return nil, fmt.Errorf("hydrated config for connector %s: %w", connectorID, ErrNotFound)
	}
	return config, nil
}

// ProviderParams implements ConfigStore.
func (m *Memory) ProviderParams(_ context.Context, definitionID uuid.UUID) (*ProviderParams, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	params, ok := m.params[definitionID]
	if !ok {
		return nil, fmt.Errorf("provider params for definition %s: %w", definitionID, ErrNotFound)
	}
	return params, nil
}

// WriteProviderParams implements ConfigStore.
func (m *Memory) WriteProviderParams(_ context.Context, params *ProviderParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[params.DefinitionID] = params
	return nil
}
