package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/geo"
)

func untimedStop(id string, lat, lon float64) Stop {
	return Stop{
		Address:  address.Address{ID: id, FullAddress: id},
		Position: geo.Coordinate{Lat: lat, Lon: lon},
	}
}

func timedStop(id string, deliveryTime string, lat, lon float64) Stop {
	return Stop{
		Address: address.Address{
			ID:                id,
			FullAddress:       id,
			ExactDeliveryTime: &deliveryTime,
		},
		Position: geo.Coordinate{Lat: lat, Lon: lon},
	}
}

func sequenceIDs(seq []Stop) []string {
	ids := make([]string, 0, len(seq))
	for _, s := range seq {
		ids = append(ids, s.Address.ID)
	}
	return ids
}

func TestSequence_EmptyInput(t *testing.T) {
	_, err := Sequence(nil, nil)
	assert.ErrorIs(t, err, ErrNoRouteComputable)
}

func TestSequence_SingleStop(t *testing.T) {
	seq, err := Sequence([]Stop{untimedStop("a", 37.80, -122.40)}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, sequenceIDs(seq))
}

func TestSequence_IsAPermutation(t *testing.T) {
	stops := []Stop{
		timedStop("t1", "14:00", 37.80, -122.40),
		untimedStop("u1", 37.75, -122.45),
		timedStop("t2", "09:30", 37.78, -122.42),
		untimedStop("u2", 37.76, -122.41),
		untimedStop("u3", 37.79, -122.39),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)

	require.Len(t, seq, len(stops))
	assert.ElementsMatch(t,
		[]string{"t1", "u1", "t2", "u2", "u3"},
		sequenceIDs(seq),
		"output must contain every input stop exactly once")
}

func TestSequence_TimedStopsInTimeOrder(t *testing.T) {
	stops := []Stop{
		timedStop("late", "16:45", 37.80, -122.40),
		untimedStop("u1", 37.75, -122.45),
		timedStop("early", "08:15", 37.78, -122.42),
		timedStop("mid", "12:00", 37.76, -122.41),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)

	positions := map[string]int{}
	for i, s := range seq {
		positions[s.Address.ID] = i
	}

	assert.Less(t, positions["early"], positions["mid"])
	assert.Less(t, positions["mid"], positions["late"])
}

func TestSequence_TimedTiesKeepInputOrder(t *testing.T) {
	stops := []Stop{
		timedStop("first", "10:00", 37.80, -122.40),
		timedStop("second", "10:00", 37.75, -122.45),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, sequenceIDs(seq), "stable sort keeps tie order")
}

func TestSequence_Idempotent(t *testing.T) {
	stops := []Stop{
		timedStop("t1", "11:00", 37.80, -122.40),
		untimedStop("u1", 37.75, -122.45),
		untimedStop("u2", 37.76, -122.41),
	}
	anchor := &geo.Coordinate{Lat: 37.79, Lon: -122.41}

	first, err := Sequence(stops, anchor)
	require.NoError(t, err)
	second, err := Sequence(stops, anchor)
	require.NoError(t, err)

	assert.Equal(t, sequenceIDs(first), sequenceIDs(second))
}

func TestSequence_UntimedUnanchoredKeepsInputOrder(t *testing.T) {
	stops := []Stop{
		untimedStop("a", 37.80, -122.40),
		untimedStop("b", 37.75, -122.45),
		untimedStop("c", 37.78, -122.42),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sequenceIDs(seq))
}

func TestSequence_AnchoredRotatesToNearest(t *testing.T) {
	stops := []Stop{
		untimedStop("a", 37.80, -122.40),
		untimedStop("b", 37.75, -122.45),
	}
	// Anchor closest to a: the sequence starts there.
	anchor := &geo.Coordinate{Lat: 37.79, Lon: -122.41}

	seq, err := Sequence(stops, anchor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sequenceIDs(seq))
}

func TestSequence_RotationPreservesRelativeOrder(t *testing.T) {
	stops := []Stop{
		untimedStop("a", 37.70, -122.50),
		untimedStop("b", 37.75, -122.45),
		untimedStop("c", 37.80, -122.40),
	}
	// Anchor right next to b: rotation, not a distance re-sort, so a comes
	// after c.
	anchor := &geo.Coordinate{Lat: 37.751, Lon: -122.451}

	seq, err := Sequence(stops, anchor)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, sequenceIDs(seq))
}

func TestSequence_AnchorOnTopOfStop(t *testing.T) {
	stops := []Stop{
		untimedStop("a", 37.80, -122.40),
		untimedStop("b", 37.75, -122.45),
	}
	anchor := &geo.Coordinate{Lat: 37.75, Lon: -122.45}

	seq, err := Sequence(stops, anchor)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, sequenceIDs(seq), "zero distance is a valid nearest match")
}

func TestSequence_SingleTimedInsertionTie(t *testing.T) {
	x := "09:00"
	stops := []Stop{
		timedStop("x", x, 37.80, -122.40),
		untimedStop("y", 37.75, -122.45),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)

	// With one timed stop the cyclic detour is the same at both positions;
	// the first-found minimum puts the untimed stop at index 0.
	assert.Equal(t, []string{"y", "x"}, sequenceIDs(seq))
}

func TestSequence_CheapestInsertionPicksLowestDetourGap(t *testing.T) {
	// The untimed stop sits right on the line between north and south, so
	// that gap costs nothing while the gaps touching east cost extra.
	stops := []Stop{
		timedStop("north", "09:00", 38.00, -122.40),
		timedStop("south", "10:00", 37.00, -122.40),
		timedStop("east", "11:00", 37.50, -121.00),
		untimedStop("between", 37.50, -122.40),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"north", "between", "south", "east"}, sequenceIDs(seq))
}

func TestSequence_InsertionsAreIncremental(t *testing.T) {
	// Both untimed stops belong between north and south; the second
	// insertion sees the first one already placed and slots in below it.
	stops := []Stop{
		timedStop("north", "09:00", 38.00, -122.40),
		timedStop("south", "10:00", 37.00, -122.40),
		timedStop("east", "11:00", 37.50, -121.00),
		untimedStop("u1", 37.60, -122.40),
		untimedStop("u2", 37.40, -122.40),
	}

	seq, err := Sequence(stops, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"north", "u1", "u2", "south", "east"}, sequenceIDs(seq))
}

func TestSequence_DoesNotMutateInput(t *testing.T) {
	stops := []Stop{
		untimedStop("a", 37.70, -122.50),
		untimedStop("b", 37.75, -122.45),
		untimedStop("c", 37.80, -122.40),
	}
	anchor := &geo.Coordinate{Lat: 37.751, Lon: -122.451}

	_, err := Sequence(stops, anchor)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, sequenceIDs(stops), "input slice must stay untouched")
}
