package planner

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/geo"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/location"
	"github.com/droproute/droproute/internal/routing"
)

// ServiceConfig contains configuration for the planner service.
type ServiceConfig struct {
	// Geocoder resolves address text to coordinates.
	Geocoder *geocode.Service

	// Router provides turn-by-turn directions for waypoint pairs.
	Router routing.Provider

	// Locations resolves the caller's live position. Defaults to a provider
	// that always reports the location as unavailable.
	Locations location.Provider

	// Logger for planning operations.
	Logger zerolog.Logger
}

// Service plans optimized delivery routes.
type Service struct {
	geocoder  *geocode.Service
	router    routing.Provider
	locations location.Provider
	logger    zerolog.Logger
}

// NewService creates a new planner service.
func NewService(config ServiceConfig) *Service {
	if config.Locations == nil {
		config.Locations = location.Unavailable()
	}

	return &Service{
		geocoder:  config.Geocoder,
		router:    config.Router,
		locations: config.Locations,
		logger:    config.Logger.With().Str("component", "planner").Logger(),
	}
}

// PlanRequest describes one route computation.
type PlanRequest struct {
	// Addresses to visit, in the order the user entered them.
	Addresses []*address.Address

	// StartFromCurrentLocation anchors the route at the caller's position.
	StartFromCurrentLocation bool

	// CurrentLocation is a position the caller already resolved (a client
	// fix, or a geocoded custom start). When set it is used directly and the
	// location provider is not consulted.
	CurrentLocation *geo.Coordinate

	// ReturnToStart appends a closing leg back to the starting point.
	ReturnToStart bool
}

// Plan geocodes the request's addresses, sequences them, routes each segment
// and assembles the optimized route. Addresses that fail geocoding are
// dropped and reported on the result; only a fully empty working set fails,
// with ErrNoRouteComputable.
func (s *Service) Plan(ctx context.Context, req *PlanRequest) (*OptimizedRoute, error) {
	stops, dropped := s.geocodeStops(ctx, req.Addresses)
	if len(stops) == 0 {
		return nil, ErrNoRouteComputable
	}

	current, anchor := s.resolveAnchor(ctx, req, stops)

	seq, err := Sequence(stops, anchor)
	if err != nil {
		return nil, err
	}

	data := s.routeSegments(ctx, seq, current, req.ReturnToStart)
	route := assemble(seq, current, data, req.ReturnToStart)
	route.Dropped = dropped

	s.logger.Info().
		Int("waypoints", len(route.Waypoints)).
		Int("dropped", len(dropped)).
		Bool("real_routing", route.RealRouting).
		Str("total_distance", route.TotalDistance).
		Msg("route planned")

	return route, nil
}

// geocodeStops resolves each address to a stop, dropping addresses the
// geocoder cannot resolve.
func (s *Service) geocodeStops(ctx context.Context, addresses []*address.Address) ([]Stop, []string) {
	var stops []Stop
	var dropped []string

	for _, a := range addresses {
		coord := s.geocoder.Geocode(ctx, a.FullAddress)
		if coord == nil {
			s.logger.Warn().Str("address", a.FullAddress).Msg("address failed geocoding, dropped from route")
			dropped = append(dropped, a.FullAddress)
			continue
		}
		stops = append(stops, Stop{Address: *a, Position: *coord})
	}

	return stops, dropped
}

// resolveAnchor resolves the live fix when requested. The first return is
// the actual fix (nil when unavailable); the second is the sequencing
// anchor, which falls back to the first stop's position so an anchored
// request still starts somewhere sensible.
func (s *Service) resolveAnchor(ctx context.Context, req *PlanRequest, stops []Stop) (*geo.Coordinate, *geo.Coordinate) {
	if !req.StartFromCurrentLocation {
		return nil, nil
	}

	if req.CurrentLocation != nil {
		fix := *req.CurrentLocation
		return &fix, &fix
	}

	fix, err := s.locations.Current(ctx)
	if err == nil {
		return &fix, &fix
	}
	s.logger.Warn().Err(err).Msg("current location unavailable, anchoring at first address")

	anchor := stops[0].Position
	return nil, &anchor
}
