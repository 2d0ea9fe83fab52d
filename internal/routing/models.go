// Package routing provides turn-by-turn driving directions between waypoints.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrNoRouteFound indicates no drivable route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for directions providers.
type Provider interface {
	// GetDirections retrieves driving directions for a single origin/destination pair.
	GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and health tracking.
	Name() string
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DirectionsRequest is the request for directions between exactly two points.
type DirectionsRequest struct {
	Origin      Coordinate
	Destination Coordinate
}

// DirectionsResponse is the response for a single origin/destination pair.
type DirectionsResponse struct {
	Routes    []Route
	Provider  string
	FetchedAt time.Time
}

// Route represents one drivable route between the requested pair.
type Route struct {
	Geometry        []Coordinate // Full path geometry, ordered origin to destination
	DistanceMeters  float64
	DurationSeconds float64
	Steps           []Step
}

// Step represents a single maneuver along a route.
type Step struct {
	Instruction     string
	StreetName      string
	Maneuver        string // e.g. "depart", "turn-left", "arrive"
	DistanceMeters  float64
	DurationSeconds float64
}

// Error provides detailed error information from a directions provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidateCoordinate checks that a coordinate is within valid ranges.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrInvalidCoordinates
	}
	if c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
