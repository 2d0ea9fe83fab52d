// Package planner sequences delivery addresses into an ordered route and
// assembles turn-by-turn directions for it, falling back to straight-line
// estimates when the routing provider is unavailable.
package planner

import (
	"errors"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/geo"
)

// ErrNoRouteComputable indicates no geocoded address is available to plan
// with: either the input list was empty or every address failed geocoding.
var ErrNoRouteComputable = errors.New("no route computable from available addresses")

// Stop is a geocoded delivery address: one waypoint of the planned route.
type Stop struct {
	Address  address.Address
	Position geo.Coordinate
}

// hasDeliveryTime reports whether the stop carries a hard delivery time.
func (s Stop) hasDeliveryTime() bool {
	return s.Address.HasDeliveryTime()
}

// RouteStep is one turn-by-turn instruction of the assembled route.
type RouteStep struct {
	Instruction   string
	Distance      string
	Duration      string
	Maneuver      *string
	StreetName    *string
	IsDestination bool
}

// OptimizedRoute is the planned route. It is rebuilt from scratch on every
// plan; callers never mutate it.
type OptimizedRoute struct {
	Waypoints     []Stop
	TotalDistance string
	TotalDuration string
	TotalFuel     string
	Steps         []RouteStep
	// Coordinates is the full path geometry in visiting order.
	Coordinates []geo.Coordinate
	// CurrentLocation is the resolved live fix, nil when the route is not
	// anchored at the caller's position.
	CurrentLocation *geo.Coordinate
	// RealRouting is true when at least one segment came from the routing
	// provider rather than straight-line synthesis.
	RealRouting bool
	// Dropped lists the full addresses excluded because geocoding found no
	// match for them.
	Dropped []string
}
