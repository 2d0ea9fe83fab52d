// Package settings provides routing preference management. Only the
// starting-point selector and return-to-start flag change planning behavior;
// the remaining preferences are persisted and surfaced as entered.
package settings

import (
	"errors"
	"time"
)

// ErrSettingsNotFound is returned when no settings row has been stored yet.
var ErrSettingsNotFound = errors.New("route settings not found")

// StartingPoint selects where a planned route begins.
type StartingPoint string

const (
	StartingPointCurrentLocation StartingPoint = "CURRENT_LOCATION"
	StartingPointCustom          StartingPoint = "CUSTOM"
)

// TrafficProvider selects the traffic data source.
type TrafficProvider string

const (
	TrafficProviderNone   TrafficProvider = "NONE"
	TrafficProviderOSRM   TrafficProvider = "OSRM"
	TrafficProviderCustom TrafficProvider = "CUSTOM"
)

// Settings is the routing preference bundle. There is one bundle per
// deployment.
type Settings struct {
	OptimizeForShortestDistance bool
	ConsiderRealTimeTraffic     bool
	AvoidHighways               bool
	AvoidTolls                  bool
	MinimizeLeftTurns           bool
	ReturnToStart               bool
	OfflineMode                 bool
	StartingPoint               StartingPoint
	CustomStartAddress          *string
	TrafficProvider             TrafficProvider
	UpdatedAt                   time.Time
}

// Defaults returns the settings used before the user has saved any.
func Defaults() *Settings {
	return &Settings{
		StartingPoint:   StartingPointCurrentLocation,
		TrafficProvider: TrafficProviderNone,
	}
}

// StartFromCurrentLocation reports whether planning should anchor at the
// caller's live position.
func (s *Settings) StartFromCurrentLocation() bool {
	return s.StartingPoint == StartingPointCurrentLocation
}
