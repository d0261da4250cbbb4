// Package store defines the configuration persistence contract consumed by
// the OAuth orchestrator: hydrated connector configurations (secret
// references already resolved to values) and provider-level default OAuth
// parameters. The production implementation lives in the platform's
// persistence layer.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProviderParams are instance-wide default OAuth parameters for a connector
// definition, typically the platform-operated client id and secret.
type ProviderParams struct {
	ID           uuid.UUID
	DefinitionID uuid.UUID
	Config       map[string]any
}

// ConfigStore reads hydrated connector configurations and reads/writes
// provider-level default OAuth parameters.
type ConfigStore interface {
	// HydratedConfig returns the stored configuration of a connector
	// instance with its secrets resolved. Returns ErrNotFound when the
	// connector has no stored configuration.
	HydratedConfig(ctx context.Context, connectorID uuid.UUID) (map[string]any, error)

	// ProviderParams returns the default OAuth parameters for a definition,
	// or ErrNotFound when none were set.
	ProviderParams(ctx context.Context, definitionID uuid.UUID) (*ProviderParams, error)

	// WriteProviderParams inserts or replaces the default OAuth parameters
	// for the definition the params belong to.
	WriteProviderParams(ctx context.Context, params *ProviderParams) error
}
