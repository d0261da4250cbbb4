// Package analytics defines the best-effort event tracking contract used by
// the OAuth orchestrator. Emission failures are logged by callers and never
// propagated; the business logic stays pure and independently testable.
package analytics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker emits a product analytics event for a workspace.
type Tracker interface {
	Track(ctx context.Context, workspaceID uuid.UUID, event string, metadata map[string]any) error
}

// NopTracker discards every event.
type NopTracker struct{}

// Track implements Tracker.
func (NopTracker) Track(context.Context, uuid.UUID, string, map[string]any) error {
	return nil
}

// ZapTracker writes events to a logger. Useful in development and as the
// default sink when no real analytics client is wired in.
type ZapTracker struct {
	logger *zap.Logger
}

// NewZapTracker returns a ZapTracker writing to the given logger.
func NewZapTracker(logger *zap.Logger) *ZapTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTracker{logger: logger}
}

// Track implements Tracker.
func (t *ZapTracker) Track(_ context.Context, workspaceID uuid.UUID, event string, metadata map[string]any) error {
	t.logger.Info("analytics event",
		zap.String("event", event),
		zap.String("workspace_id", workspaceID.String()),
		zap.Any("metadata", metadata))
	return nil
}
