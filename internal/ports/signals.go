package ports

import (
	"context"

	"depwarden/internal/types"
)

// SignalSourcePort fetches registry health signals for one package version.
// Any transport failure, timeout, or malformed payload is reported as an
// error; the caller degrades that uniformly to signals-unavailable. A
// successful lookup with sparse fields is not an error.
type SignalSourcePort interface {
	FetchSignals(ctx context.Context, coordinate types.Coordinate, version string) (types.HealthSignals, error)
}
