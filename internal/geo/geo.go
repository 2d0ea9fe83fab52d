// Package geo provides great-circle math and formatting helpers shared by the
// route planner.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the mean Earth radius used for haversine distances.
const earthRadiusMiles = 3958.8

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Distance returns the haversine great-circle distance between two points in
// miles. It is symmetric and returns zero for identical points.
func Distance(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// Bearing returns the initial compass bearing in degrees from a to b,
// normalized to [0, 360). Unlike Distance it is not symmetric.
func Bearing(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// FormatDuration renders a non-negative duration in seconds as "Xh Ym" when at
// least one full hour, otherwise "Ym". Both components are floor-truncated.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60

	if hours >= 1 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
