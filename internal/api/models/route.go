package models

// RoutePlanRequest is the request body for planning an optimized route.
// When AddressIDs is empty the whole address book is planned. CurrentLocation
// is the fix the client acquired; it is only consulted when the stored
// settings select a current-location start.
type RoutePlanRequest struct {
	AddressIDs      []string `json:"addressIds,omitempty"`
	CurrentLocation *Point   `json:"currentLocation,omitempty"`
}

// RouteStep is one turn-by-turn instruction.
type RouteStep struct {
	Instruction   string  `json:"instruction"`
	Distance      string  `json:"distance"`
	Duration      string  `json:"duration"`
	Maneuver      *string `json:"maneuver,omitempty"`
	StreetName    *string `json:"streetName,omitempty"`
	IsDestination bool    `json:"isDestination"`
}

// OptimizedRoute is the planned route returned to the caller.
type OptimizedRoute struct {
	Waypoints       []Address    `json:"waypoints"`
	TotalDistance   string       `json:"totalDistance"`
	TotalDuration   string       `json:"totalDuration"`
	TotalFuel       string       `json:"totalFuel"`
	Steps           []RouteStep  `json:"steps"`
	Coordinates     [][2]float64 `json:"coordinates,omitempty"`
	CurrentLocation *Point       `json:"currentLocation,omitempty"`
	RealRouting     bool         `json:"realRouting"`
	Warnings        []Warning    `json:"warnings,omitempty"`
	GeneratedAt     Timestamp    `json:"generatedAt"`
}

// Warning represents a non-fatal issue in the response.
type Warning struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Provider *string `json:"provider,omitempty"`
}
