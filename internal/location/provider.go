// Package location resolves the caller's live position, used as the implicit
// starting waypoint when a route is anchored at the current location.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/droproute/droproute/internal/geo"
)

// ErrLocationUnavailable indicates no current-location fix could be obtained:
// the capability is absent, the caller denied it, or acquisition timed out.
var ErrLocationUnavailable = errors.New("current location unavailable")

// FixTimeout bounds how long a fix acquisition may take. There is no maximum
// age for a prior fix: a stale read is never accepted, only a live one.
const FixTimeout = 10 * time.Second

// Provider defines the interface for current-location providers.
type Provider interface {
	// Current returns one live coordinate fix, or ErrLocationUnavailable.
	Current(ctx context.Context) (geo.Coordinate, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (geo.Coordinate, error)

// Current implements Provider.
func (f ProviderFunc) Current(ctx context.Context) (geo.Coordinate, error) {
	return f(ctx)
}

// StaticFix returns a provider serving a fix the web client acquired and
// forwarded with its request. The client side enforces freshness; the server
// treats the forwarded fix as the one live read.
func StaticFix(coord geo.Coordinate) Provider {
	return ProviderFunc(func(_ context.Context) (geo.Coordinate, error) {
		return coord, nil
	})
}

// Unavailable returns a provider that always fails, for callers with no
// location capability.
func Unavailable() Provider {
	return ProviderFunc(func(_ context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{}, ErrLocationUnavailable
	})
}

// WithTimeout wraps a provider so acquisition is bounded by FixTimeout.
// A deadline or cancellation maps to ErrLocationUnavailable.
func WithTimeout(p Provider) Provider {
	return ProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		ctx, cancel := context.WithTimeout(ctx, FixTimeout)
		defer cancel()

		type result struct {
			coord geo.Coordinate
			err   error
		}

		ch := make(chan result, 1)
		go func() {
			coord, err := p.Current(ctx)
			ch <- result{coord: coord, err: err}
		}()

		select {
		case res := <-ch:
			if res.err != nil {
				return geo.Coordinate{}, ErrLocationUnavailable
			}
			return res.coord, nil
		case <-ctx.Done():
			return geo.Coordinate{}, ErrLocationUnavailable
		}
	})
}
