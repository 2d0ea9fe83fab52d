// Package geocode resolves free-text delivery addresses to coordinates, with
// a process-lifetime cache keyed by the exact address string.
package geocode

import (
	"context"
	"errors"

	"github.com/droproute/droproute/internal/geo"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNoMatch indicates the lookup service returned no result for the address.
	ErrNoMatch = errors.New("no geocoding match for address")
	// ErrProviderUnavailable indicates the lookup service is down or unreachable.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Geocode resolves an address to its best-match coordinate.
	// Returns ErrNoMatch when the service has no result for the address.
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
	// Name returns the provider identifier for logging and health tracking.
	Name() string
}
