// Package connector defines the catalog types shared across the OAuth
// orchestration flows: connector definitions, pinned versions, and the
// advanced-auth section of a connector specification.
package connector

import (
	"github.com/google/uuid"
)

// Definition is a catalog entry for a connector type.
type Definition struct {
	ID   uuid.UUID
	Name string
	// Provider identifies which OAuth flow implementation serves this
	// connector. It is the dispatch key for oauth.Registry.
	Provider string
}

// Version is a pinned release of a connector definition. Different workspaces
// (or individual connector instances) may run different versions, each
// carrying its own spec.
type Version struct {
	DefinitionID uuid.UUID
	Tag          string
	Spec         *Spec
}

// Spec is the connector specification relevant to OAuth orchestration.
// ConnectionSpecification is the connector's full JSON schema; AdvancedAuth
// is present only for connectors that declare an OAuth flow.
type Spec struct {
	ConnectionSpecification map[string]any
	AdvancedAuth            *AdvancedAuth
}

// AdvancedAuth describes a connector's OAuth flow declaration.
type AdvancedAuth struct {
	AuthFlowType    string
	PredicateKey    []string
	PredicateValue  string
	OAuthConfigSpec *OAuthConfigSpec
}

// OAuthConfigSpec carries the four schema fragments a connector uses to
// describe its OAuth inputs and outputs. The fragments are untyped JSON
// schema trees; only UserInputFromConnectorConfig is interpreted by this
// module (see ExtractConfigPaths), the rest are passed through to the flow
// implementations verbatim.
type OAuthConfigSpec struct {
	UserInputFromConnectorConfig map[string]any
	CompleteOAuthOutputSpec      map[string]any
	ServerInputSpec              map[string]any
	ServerOutputSpec             map[string]any
}

// HasOAuthConfigSpec reports whether the spec declares an advanced-auth OAuth
// configuration. Connectors without one use the legacy consent path with an
// empty input configuration.
func (s *Spec) HasOAuthConfigSpec() bool {
	return s != nil && s.AdvancedAuth != nil && s.AdvancedAuth.OAuthConfigSpec != nil
}
