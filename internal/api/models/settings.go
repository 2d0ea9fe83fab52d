package models

// RouteSettings is the routing preference bundle. Only StartingPoint and
// ReturnToStart change planning behavior; the remaining flags are persisted
// and echoed back but do not alter sequencing.
type RouteSettings struct {
	OptimizeForShortestDistance bool            `json:"optimizeForShortestDistance"`
	ConsiderRealTimeTraffic     bool            `json:"considerRealTimeTraffic"`
	AvoidHighways               bool            `json:"avoidHighways"`
	AvoidTolls                  bool            `json:"avoidTolls"`
	MinimizeLeftTurns           bool            `json:"minimizeLeftTurns"`
	ReturnToStart               bool            `json:"returnToStart"`
	OfflineMode                 bool            `json:"offlineMode"`
	StartingPoint               StartingPoint   `json:"startingPoint"`
	CustomStartAddress          *string         `json:"customStartAddress,omitempty"`
	TrafficProvider             TrafficProvider `json:"trafficProvider"`
	UpdatedAt                   Timestamp       `json:"updatedAt"`
}

// RouteSettingsUpdateRequest is the request body for updating route settings.
// Absent fields keep their stored values.
type RouteSettingsUpdateRequest struct {
	OptimizeForShortestDistance *bool            `json:"optimizeForShortestDistance,omitempty"`
	ConsiderRealTimeTraffic     *bool            `json:"considerRealTimeTraffic,omitempty"`
	AvoidHighways               *bool            `json:"avoidHighways,omitempty"`
	AvoidTolls                  *bool            `json:"avoidTolls,omitempty"`
	MinimizeLeftTurns           *bool            `json:"minimizeLeftTurns,omitempty"`
	ReturnToStart               *bool            `json:"returnToStart,omitempty"`
	OfflineMode                 *bool            `json:"offlineMode,omitempty"`
	StartingPoint               *StartingPoint   `json:"startingPoint,omitempty"`
	CustomStartAddress          *string          `json:"customStartAddress,omitempty" validate:"omitempty,max=300"`
	TrafficProvider             *TrafficProvider `json:"trafficProvider,omitempty"`
}
