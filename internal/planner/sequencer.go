package planner

import (
	"sort"

	"github.com/droproute/droproute/internal/geo"
)

// Sequence orders stops into a visiting sequence. Stops with a hard delivery
// time form the backbone, sorted ascending by their HH:mm string; the
// remaining stops are threaded into the cheapest gaps. Without timed stops
// the input order is kept, rotated to start at the stop nearest the anchor
// when one is given.
//
// The result is always a permutation of the input. An empty input fails with
// ErrNoRouteComputable.
func Sequence(stops []Stop, anchor *geo.Coordinate) ([]Stop, error) {
	if len(stops) == 0 {
		return nil, ErrNoRouteComputable
	}

	var timed, untimed []Stop
	for _, s := range stops {
		if s.hasDeliveryTime() {
			timed = append(timed, s)
		} else {
			untimed = append(untimed, s)
		}
	}

	// Fixed-width 24-hour HH:mm strings compare correctly as strings.
	sort.SliceStable(timed, func(i, j int) bool {
		return *timed[i].Address.ExactDeliveryTime < *timed[j].Address.ExactDeliveryTime
	})

	if len(timed) == 0 {
		seq := append([]Stop(nil), untimed...)
		if anchor != nil {
			seq = rotateToNearest(seq, *anchor)
		}
		return seq, nil
	}

	// Timed stops are immovable appointments; each untimed stop goes where
	// it adds the least travel. Insertions are incremental, so later stops
	// see earlier placements.
	seq := append([]Stop(nil), timed...)
	for _, candidate := range untimed {
		seq = insertCheapest(seq, candidate)
	}

	return seq, nil
}

// rotateToNearest rotates the sequence so the stop nearest the anchor comes
// first, preserving the relative order of the rest. Ties keep the earliest
// stop.
func rotateToNearest(seq []Stop, anchor geo.Coordinate) []Stop {
	nearest := 0
	best := geo.Distance(anchor, seq[0].Position)
	for i := 1; i < len(seq); i++ {
		if d := geo.Distance(anchor, seq[i].Position); d < best {
			best = d
			nearest = i
		}
	}

	if nearest == 0 {
		return seq
	}

	out := make([]Stop, 0, len(seq))
	out = append(out, seq[nearest:]...)
	out = append(out, seq[:nearest]...)
	return out
}

// insertCheapest inserts the candidate at the position that adds the least
// detour distance, treating the sequence as a cycle: position 0's previous
// neighbor wraps to the last element. The first position with the minimum
// detour wins.
func insertCheapest(seq []Stop, candidate Stop) []Stop {
	n := len(seq)
	bestIdx := 0
	bestDetour := 0.0

	for i := 0; i < n; i++ {
		prev := seq[(i-1+n)%n].Position
		next := seq[i%n].Position

		detour := geo.Distance(prev, candidate.Position) +
			geo.Distance(candidate.Position, next) -
			geo.Distance(prev, next)

		if i == 0 || detour < bestDetour {
			bestDetour = detour
			bestIdx = i
		}
	}

	out := make([]Stop, 0, n+1)
	out = append(out, seq[:bestIdx]...)
	out = append(out, candidate)
	out = append(out, seq[bestIdx:]...)
	return out
}
