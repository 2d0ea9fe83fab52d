package geocode

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/geo"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding provider (required).
	Provider Provider

	// Cache stores resolved coordinates. If nil, a fresh MemoryCache is used.
	Cache Cache

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves addresses through a provider with write-through caching.
//
// A failed lookup never propagates to the caller: the service returns nil for
// both "no match" and provider failure, and the address is simply dropped from
// the route computation. Route planning degrades instead of aborting.
type Service struct {
	provider Provider
	cache    Cache
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Service{
		provider: cfg.Provider,
		cache:    cache,
		logger:   cfg.Logger,
	}
}

// Geocode resolves an address to a coordinate, consulting the cache first.
// Returns nil when the address cannot be resolved, for any reason.
func (s *Service) Geocode(ctx context.Context, address string) *geo.Coordinate {
	if address == "" {
		return nil
	}

	if coord, ok := s.cache.Get(ctx, address); ok {
		s.logger.Debug().Str("address", address).Msg("geocode cache hit")
		return &coord
	}

	coord, err := s.provider.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			s.logger.Warn().
				Str("address", address).
				Str("provider", s.provider.Name()).
				Msg("address could not be geocoded")
		} else {
			s.logger.Error().Err(err).
				Str("address", address).
				Str("provider", s.provider.Name()).
				Msg("geocoding request failed")
		}
		return nil
	}

	s.cache.Put(ctx, address, coord)

	s.logger.Debug().
		Str("address", address).
		Float64("lat", coord.Lat).
		Float64("lon", coord.Lon).
		Msg("address geocoded")

	return &coord
}
