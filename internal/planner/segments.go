package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/geo"
	"github.com/droproute/droproute/internal/routing"
)

const (
	// fallbackSpeedMph is the assumed average speed when estimating a
	// segment without the routing provider.
	fallbackSpeedMph = 30.0

	metersPerMile = 1609.344
)

// leg is the sub-route between two consecutive waypoints. dest is nil for
// the closing return-to-start leg.
type leg struct {
	from  geo.Coordinate
	to    geo.Coordinate
	dest  *address.Address
	final bool
}

// segmentData accumulates per-leg routing output in leg order.
type segmentData struct {
	Steps        []RouteStep
	Geometry     []geo.Coordinate
	TotalMiles   float64
	TotalSeconds float64
	// RealRouting is true once any leg came back from the routing provider.
	RealRouting bool
}

// buildLegs expands the sequence into consecutive waypoint pairs, prefixed
// by the current location when one is resolved and suffixed with a closing
// leg back to the start when requested.
func buildLegs(seq []Stop, current *geo.Coordinate, returnToStart bool) []leg {
	points := make([]geo.Coordinate, 0, len(seq)+2)
	dests := make([]*address.Address, 0, len(seq)+2)

	if current != nil {
		points = append(points, *current)
		dests = append(dests, nil)
	}
	for i := range seq {
		points = append(points, seq[i].Position)
		dests = append(dests, &seq[i].Address)
	}
	if returnToStart && len(points) > 1 {
		points = append(points, points[0])
		dests = append(dests, nil)
	}

	legs := make([]leg, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		legs = append(legs, leg{
			from:  points[i],
			to:    points[i+1],
			dest:  dests[i+1],
			final: i+2 == len(points),
		})
	}
	return legs
}

// routeSegments requests directions for each leg independently, so one
// provider failure degrades only its own leg. Failed legs get a synthesized
// straight-line step. A sequence with a single waypoint and no anchor yields
// one arrival step with zero distance and no geometry.
func (s *Service) routeSegments(ctx context.Context, seq []Stop, current *geo.Coordinate, returnToStart bool) segmentData {
	legs := buildLegs(seq, current, returnToStart)

	var data segmentData
	if len(legs) == 0 {
		data.Steps = append(data.Steps, RouteStep{
			Instruction:   arriveInstruction(&seq[0].Address),
			Distance:      "0.0 mi",
			Duration:      geo.FormatDuration(0),
			IsDestination: true,
		})
		return data
	}

	for _, l := range legs {
		route, err := s.fetchLeg(ctx, l)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("destination", legDestination(l.dest)).
				Msg("segment routing failed, using straight-line fallback")
			appendFallbackLeg(&data, l)
			continue
		}

		data.RealRouting = true
		for _, c := range route.Geometry {
			data.Geometry = append(data.Geometry, geo.Coordinate{Lat: c.Lat, Lon: c.Lon})
		}
		data.TotalMiles += route.DistanceMeters / metersPerMile
		data.TotalSeconds += route.DurationSeconds

		steps := toRouteSteps(route.Steps)
		if len(steps) > 0 {
			last := &steps[len(steps)-1]
			last.IsDestination = true
			if l.final {
				last.Instruction = arriveInstruction(l.dest)
			}
		}
		data.Steps = append(data.Steps, steps...)
	}

	return data
}

// fetchLeg issues one directions request for a single waypoint pair.
func (s *Service) fetchLeg(ctx context.Context, l leg) (*routing.Route, error) {
	resp, err := s.router.GetDirections(ctx, routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: l.from.Lat, Lon: l.from.Lon},
		Destination: routing.Coordinate{Lat: l.to.Lat, Lon: l.to.Lon},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, routing.ErrNoRouteFound
	}
	return &resp.Routes[0], nil
}

// appendFallbackLeg synthesizes one straight-line step for a failed leg:
// haversine distance at an assumed 30 mph, with the two raw endpoints as the
// leg's geometry.
func appendFallbackLeg(data *segmentData, l leg) {
	miles := geo.Distance(l.from, l.to)
	minutes := math.Round(miles / fallbackSpeedMph * 60)

	instruction := "Head to " + legDestination(l.dest)
	if l.final {
		instruction += deliverySuffix(l.dest)
	}

	data.Steps = append(data.Steps, RouteStep{
		Instruction:   instruction,
		Distance:      fmt.Sprintf("%.1f mi", miles),
		Duration:      geo.FormatDuration(minutes * 60),
		IsDestination: l.final,
	})
	data.Geometry = append(data.Geometry, l.from, l.to)
	data.TotalMiles += miles
	data.TotalSeconds += minutes * 60
}

// toRouteSteps converts provider maneuver steps to route steps.
func toRouteSteps(steps []routing.Step) []RouteStep {
	out := make([]RouteStep, 0, len(steps))
	for _, st := range steps {
		rs := RouteStep{
			Instruction: st.Instruction,
			Distance:    fmt.Sprintf("%.1f mi", st.DistanceMeters/metersPerMile),
			Duration:    geo.FormatDuration(st.DurationSeconds),
		}
		if st.Maneuver != "" {
			m := st.Maneuver
			rs.Maneuver = &m
		}
		if st.StreetName != "" {
			n := st.StreetName
			rs.StreetName = &n
		}
		out = append(out, rs)
	}
	return out
}

// arriveInstruction builds the final arrival instruction for a destination.
func arriveInstruction(dest *address.Address) string {
	if dest == nil {
		return "Arrive back at start"
	}
	return "Arrive at " + dest.FullAddress + deliverySuffix(dest)
}

// deliverySuffix appends the early-arrival recommendation for stops with a
// hard delivery time. Couriers are always told to aim 3 minutes ahead of an
// appointment.
func deliverySuffix(dest *address.Address) string {
	if dest == nil || !dest.HasDeliveryTime() {
		return ""
	}
	return fmt.Sprintf(" (Arrive by %s, aim to be 3 minutes early)", *dest.ExactDeliveryTime)
}

func legDestination(dest *address.Address) string {
	if dest == nil {
		return "start"
	}
	return dest.FullAddress
}
