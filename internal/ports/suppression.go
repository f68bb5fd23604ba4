package ports

import (
	"context"
	"time"

	"depwarden/internal/types"
)

// SuppressionStorePort is the only state that outlives an invocation.
// Entries are keyed by (request, coordinate, manifest fingerprint); a
// changed fingerprint stops matching without any cleanup.
type SuppressionStorePort interface {
	IsSuppressed(ctx context.Context, requestID string, coordinate types.Coordinate, fingerprint string) (bool, error)
	Acknowledge(ctx context.Context, requestID string, coordinate types.Coordinate, fingerprint string, at time.Time) error
	Close() error
}
