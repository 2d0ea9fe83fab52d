// Package models provides request and response models for the DropRoute API.
package models

import "time"

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// TimeWindow represents a soft delivery window preference.
type TimeWindow string

const (
	TimeWindowAny       TimeWindow = "ANY"
	TimeWindowMorning   TimeWindow = "MORNING"
	TimeWindowAfternoon TimeWindow = "AFTERNOON"
	TimeWindowEvening   TimeWindow = "EVENING"
)

// Priority represents delivery priority.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

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

// PagedResponseMeta contains pagination metadata.
type PagedResponseMeta struct {
	Limit      int     `json:"limit"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Remove quotes
	s := string(data[1 : len(data)-1])
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
