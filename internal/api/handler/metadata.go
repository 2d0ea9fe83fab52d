package handler

import (
	"net/http"

	"github.com/droproute/droproute/internal/api/models"
	"github.com/droproute/droproute/internal/api/response"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		TimeWindows: []models.TimeWindow{
			models.TimeWindowAny,
			models.TimeWindowMorning,
			models.TimeWindowAfternoon,
			models.TimeWindowEvening,
		},
		Priorities: []models.Priority{
			models.PriorityHigh,
			models.PriorityNormal,
			models.PriorityLow,
		},
		StartingPoints: []models.StartingPoint{
			models.StartingPointCurrentLocation,
			models.StartingPointCustom,
		},
		TrafficProviders: []models.TrafficProvider{
			models.TrafficProviderNone,
			models.TrafficProviderOSRM,
			models.TrafficProviderCustom,
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}
