// Package secrets defines secret coordinates, the writer contract for the
// platform's secret store, and the write path that materializes an OAuth
// response payload as a single stored secret.
package secrets

import (
	"fmt"

	"github.com/google/uuid"
)

const oauthCoordinatePrefix = "oauthbridge_oauth_workspace_"

// Coordinate identifies where a secret's value lives in the secret store:
// an opaque base plus a version.
type Coordinate struct {
	Base    string
	Version int
}

// FullCoordinate renders the complete reference string handed to callers.
func (c Coordinate) FullCoordinate() string {
	return fmt.Sprintf("%s_v%d", c.Base, c.Version)
}

// NewOAuthCoordinate mints a coordinate for an OAuth response secret. The
// base embeds the workspace id plus a fresh random component, so successive
// calls for the same workspace always address distinct secrets. Version is
// always 1: OAuth secrets are never updated in place.
func NewOAuthCoordinate(workspaceID uuid.UUID) Coordinate {
	return Coordinate{
		Base:    fmt.Sprintf("%s%s_secret_%s", oauthCoordinatePrefix, workspaceID, uuid.New()),
		Version: 1,
	}
}
