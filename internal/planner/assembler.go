package planner

import (
	"fmt"
	"math"

	"github.com/droproute/droproute/internal/geo"
)

// mpgAssumption is the fixed fuel-economy assumption for fuel estimates.
const mpgAssumption = 25.0

// assemble folds segment output into the final route. When no leg came back
// from the routing provider, the per-leg output is discarded and the whole
// route is regenerated as straight lines between waypoints.
func assemble(seq []Stop, current *geo.Coordinate, data segmentData, returnToStart bool) *OptimizedRoute {
	route := &OptimizedRoute{
		Waypoints:       seq,
		CurrentLocation: current,
	}

	var miles, seconds float64
	if data.RealRouting {
		route.RealRouting = true
		route.Steps = data.Steps
		route.Coordinates = data.Geometry
		miles = data.TotalMiles
		seconds = data.TotalSeconds
	} else {
		route.Steps, route.Coordinates, miles = straightLineRoute(seq, current, returnToStart)
		seconds = miles / fallbackSpeedMph * 3600
	}

	route.TotalDistance = fmt.Sprintf("%.1f mi", miles)
	route.TotalDuration = geo.FormatDuration(seconds)
	route.TotalFuel = fmt.Sprintf("%.1f gal", miles/mpgAssumption)
	return route
}

// straightLineRoute regenerates the entire route as direct lines through the
// waypoints: one drive step per consecutive pair, geometry through the raw
// waypoint positions, totals from haversine distance at the assumed speed.
func straightLineRoute(seq []Stop, current *geo.Coordinate, returnToStart bool) ([]RouteStep, []geo.Coordinate, float64) {
	legs := buildLegs(seq, current, returnToStart)
	if len(legs) == 0 {
		steps := []RouteStep{{
			Instruction:   arriveInstruction(&seq[0].Address),
			Distance:      "0.0 mi",
			Duration:      geo.FormatDuration(0),
			IsDestination: true,
		}}
		return steps, nil, 0
	}

	steps := make([]RouteStep, 0, len(legs))
	geometry := make([]geo.Coordinate, 0, len(legs)+1)
	geometry = append(geometry, legs[0].from)

	var totalMiles float64
	for _, l := range legs {
		miles := geo.Distance(l.from, l.to)
		minutes := math.Round(miles / fallbackSpeedMph * 60)
		totalMiles += miles

		instruction := "Drive to " + legDestination(l.dest)
		if l.final {
			instruction += deliverySuffix(l.dest)
		}

		steps = append(steps, RouteStep{
			Instruction:   instruction,
			Distance:      fmt.Sprintf("%.1f mi", miles),
			Duration:      geo.FormatDuration(minutes * 60),
			IsDestination: l.final,
		})
		geometry = append(geometry, l.to)
	}

	return steps, geometry, totalMiles
}
