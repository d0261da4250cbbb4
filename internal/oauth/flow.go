// Package oauth defines the provider-facing OAuth flow contract, the registry
// that dispatches on provider identifiers, and the normalization of raw
// provider exchange results into a uniform response.
package oauth

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipedock/oauthbridge/internal/connector"
)

// ConsentRequest carries everything a flow implementation needs to build a
// provider consent URL. InputConfig is the reconciled configuration; Spec is
// nil on the legacy path for connectors without an advanced-auth declaration.
type ConsentRequest struct {
	WorkspaceID  uuid.UUID
	DefinitionID uuid.UUID
	RedirectURL  string
	InputConfig  map[string]any
	Spec         *connector.OAuthConfigSpec
}

// CompleteRequest carries the callback query parameters and reconciled
// configuration for a token exchange.
type CompleteRequest struct {
	WorkspaceID  uuid.UUID
	DefinitionID uuid.UUID
	QueryParams  map[string]any
	RedirectURL  string
	InputConfig  map[string]any
	Spec         *connector.OAuthConfigSpec
}

// Flow is one provider's OAuth implementation. Implementations own the whole
// wire protocol (authorization code exchange, token refresh) and are treated
// as black boxes by the orchestrator.
//
// Complete returns the provider's raw result mapping; callers normalize it
// with NormalizeResult.
type Flow interface {
	ConsentURL(ctx context.Context, req ConsentRequest) (string, error)
	Complete(ctx context.Context, req CompleteRequest) (map[string]any, error)
}
