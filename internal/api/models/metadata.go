package models

// Enums represents the enum values used by the API.
type Enums struct {
	TimeWindows      []TimeWindow      `json:"timeWindows"`
	Priorities       []Priority        `json:"priorities"`
	StartingPoints   []StartingPoint   `json:"startingPoints"`
	TrafficProviders []TrafficProvider `json:"trafficProviders"`
}
