package connector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrDefinitionNotFound indicates the catalog has no definition for the id.
var ErrDefinitionNotFound = errors.New("connector definition not found")

// ErrVersionNotFound indicates no version is pinned for the requested scope.
var ErrVersionNotFound = errors.New("connector version not found")

// Catalog resolves connector definitions and the version pinned for a given
// scope. The production implementation lives in the platform's persistence
// layer; this module only consumes the interface.
type Catalog interface {
	// Definition returns the catalog entry for a definition id.
	Definition(ctx context.Context, id uuid.UUID) (*Definition, error)

	// VersionForConnector returns the version pinned for an existing
	// connector instance.
	VersionForConnector(ctx context.Context, def *Definition, connectorID uuid.UUID) (*Version, error)

	// VersionForWorkspace returns the version a workspace would get for a
	// brand new connector of this definition.
	VersionForWorkspace(ctx context.Context, def *Definition, workspaceID uuid.UUID) (*Version, error)
}

// MemoryCatalog is an in-memory Catalog used by tests and the CLI. Versions
// can be pinned per connector instance; everything else falls back to the
// definition's default version.
type MemoryCatalog struct {
	mu          sync.RWMutex
	definitions map[uuid.UUID]*Definition
	defaults    map[uuid.UUID]*Version
	pinned      map[uuid.UUID]*Version
}

// NewMemoryCatalog returns an empty MemoryCatalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		definitions: make(map[uuid.UUID]*Definition),
		defaults:    make(map[uuid.UUID]*Version),
		pinned:      make(map[uuid.UUID]*Version),
	}
}

// AddDefinition registers a definition with its default version.
func (c *MemoryCatalog) AddDefinition(def *Definition, defaultVersion *Version) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[def.ID] = def
	c.defaults[def.ID] = defaultVersion
}

// PinVersion pins a version for a specific connector instance.
func (c *MemoryCatalog) PinVersion(connectorID uuid.UUID, version *Version) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned[connectorID] = version
}

// Definition implements Catalog.
func (c *MemoryCatalog) Definition(_ context.Context, id uuid.UUID) (*Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, id)
	}
	return def, nil
}

// VersionForConnector implements Catalog.
func (c *MemoryCatalog) VersionForConnector(_ context.Context, def *Definition, connectorID uuid.UUID) (*Version, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.pinned[connectorID]; ok {
		return v, nil
	}
	return c.defaultVersionLocked(def)
}

// VersionForWorkspace implements Catalog.
func (c *MemoryCatalog) VersionForWorkspace(_ context.Context, def *Definition, _ uuid.UUID) (*Version, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultVersionLocked(def)
}

func (c *MemoryCatalog) defaultVersionLocked(def *Definition) (*Version, error) {
	v, ok := c.defaults[def.ID]
	if !ok {
		return nil, fmt.Errorf("%w: definition %s", ErrVersionNotFound, def.ID)
	}
	return v, nil
}
