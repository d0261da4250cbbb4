package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pipedock/oauthbridge/internal/oauth"
)

// SecretIDKey is the single payload field returned by WriteResponseSecret.
const SecretIDKey = "secret_id"

// Writer stores an opaque string under a coordinate. The production
// implementation is the platform's secret store; this module only consumes
// the interface.
type Writer interface {
	Store(ctx context.Context, coordinate Coordinate, value string) error
}

// WriteResponseSecret serializes an OAuth response payload into a single
// secret under a freshly minted coordinate and returns a response whose
// payload holds only the full coordinate reference.
//
// The whole token payload lands in one secret on purpose: public API
// consumers track a single reference and rehydrate the connector
// configuration from it later. Serialization or store failures abort the
// call; there is no retry.
func WriteResponseSecret(ctx context.Context, w Writer, workspaceID uuid.UUID, payload *oauth.Response) (*oauth.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize oauth response payload: %w", err)
	}

	coordinate := NewOAuthCoordinate(workspaceID)
	if err := w.Store(ctx, coordinate, string(raw)); err != nil {
		return nil, fmt.Errorf("store oauth response secret: %w", err)
	}

	return oauth.NormalizeResult(map[string]any{
		SecretIDKey: coordinate.FullCoordinate(),
	}), nil
}

// MemoryWriter is an in-memory Writer for tests and the CLI.
type MemoryWriter struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{values: make(map[string]string)}
}

// Store implements Writer.
func (m *MemoryWriter) Store(_ context.Context, coordinate Coordinate, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[coordinate.FullCoordinate()] = value
	return nil
}

// Get returns the stored value for a full coordinate reference.
func (m *MemoryWriter) Get(fullCoordinate string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[fullCoordinate]
	return v, ok
}

// Len returns the number of stored secrets.
func (m *MemoryWriter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
