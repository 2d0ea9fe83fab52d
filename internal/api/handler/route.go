package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/api/models"
	"github.com/droproute/droproute/internal/api/response"
	"github.com/droproute/droproute/internal/geo"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/planner"
	"github.com/droproute/droproute/internal/settings"
)

// Warning codes surfaced on route plan responses.
const (
	warningAddressDropped        = "ADDRESS_DROPPED"
	warningLocationUnavailable   = "LOCATION_UNAVAILABLE"
	warningCustomStartUnresolved = "CUSTOM_START_UNRESOLVED"
)

// RouteHandler handles route planning endpoints.
type RouteHandler struct {
	addresses *address.Service
	settings  *settings.Service
	planner   *planner.Service
	geocoder  *geocode.Service
}

// RouteHandlerConfig holds configuration for the RouteHandler.
type RouteHandlerConfig struct {
	Addresses *address.Service
	Settings  *settings.Service
	Planner   *planner.Service

	// Geocoder resolves the custom start address when the stored settings
	// select a custom starting point.
	Geocoder *geocode.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(cfg RouteHandlerConfig) *RouteHandler {
	return &RouteHandler{
		addresses: cfg.Addresses,
		settings:  cfg.Settings,
		planner:   cfg.Planner,
		geocoder:  cfg.Geocoder,
	}
}

// PlanRoute handles POST /v1/routes:plan - compute an optimized route over
// the selected addresses (the whole book when none are named).
func (h *RouteHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RoutePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	prefs, err := h.settings.Get(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load settings")
		return
	}

	stops, fieldErrors, err := h.resolveAddresses(r, &input)
	if err != nil {
		response.InternalError(w, r, "failed to load addresses")
		return
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "unknown address IDs", fieldErrors)
		return
	}

	planReq := &planner.PlanRequest{
		Addresses:     stops,
		ReturnToStart: prefs.ReturnToStart,
	}

	var warnings []models.Warning
	switch prefs.StartingPoint {
	case settings.StartingPointCurrentLocation:
		planReq.StartFromCurrentLocation = true
		if input.CurrentLocation != nil {
			planReq.CurrentLocation = &geo.Coordinate{
				Lat: input.CurrentLocation.Lat,
				Lon: input.CurrentLocation.Lon,
			}
		}
	case settings.StartingPointCustom:
		if prefs.CustomStartAddress != nil {
			if coord := h.geocoder.Geocode(r.Context(), *prefs.CustomStartAddress); coord != nil {
				planReq.StartFromCurrentLocation = true
				planReq.CurrentLocation = coord
			} else {
				warnings = append(warnings, models.Warning{
					Code:    warningCustomStartUnresolved,
					Message: "custom start address could not be geocoded; route starts at the first address",
				})
			}
		}
	}

	route, err := h.planner.Plan(r.Context(), planReq)
	if err != nil {
		if errors.Is(err, planner.ErrNoRouteComputable) {
			response.UnprocessableEntity(w, r, "no address could be geocoded")
			return
		}
		response.InternalError(w, r, "failed to plan route")
		return
	}

	if planReq.StartFromCurrentLocation && route.CurrentLocation == nil {
		warnings = append(warnings, models.Warning{
			Code:    warningLocationUnavailable,
			Message: "current location unavailable; route starts at the first address",
		})
	}

	response.JSON(w, r, http.StatusOK, toAPIRoute(route, warnings))
}

// resolveAddresses loads the requested addresses, or the whole book when the
// request names none. Unknown IDs are reported as field errors.
func (h *RouteHandler) resolveAddresses(r *http.Request, input *models.RoutePlanRequest) ([]*address.Address, []models.FieldError, error) {
	if len(input.AddressIDs) == 0 {
		all, err := h.addresses.ListAll(r.Context())
		return all, nil, err
	}

	stops := make([]*address.Address, 0, len(input.AddressIDs))
	var fieldErrors []models.FieldError
	for i, id := range input.AddressIDs {
		addr, err := h.addresses.GetDomain(r.Context(), id)
		if err != nil {
			if errors.Is(err, address.ErrAddressNotFound) {
				fieldErrors = append(fieldErrors, models.FieldError{
					Field:   fmt.Sprintf("addressIds[%d]", i),
					Message: "address not found",
				})
				continue
			}
			return nil, nil, err
		}
		stops = append(stops, addr)
	}

	return stops, fieldErrors, nil
}

// toAPIRoute converts a planned route to the API model.
func toAPIRoute(route *planner.OptimizedRoute, warnings []models.Warning) models.OptimizedRoute {
	waypoints := make([]models.Address, 0, len(route.Waypoints))
	for i := range route.Waypoints {
		waypoints = append(waypoints, address.ToAPI(&route.Waypoints[i].Address))
	}

	steps := make([]models.RouteStep, 0, len(route.Steps))
	for _, s := range route.Steps {
		steps = append(steps, models.RouteStep{
			Instruction:   s.Instruction,
			Distance:      s.Distance,
			Duration:      s.Duration,
			Maneuver:      s.Maneuver,
			StreetName:    s.StreetName,
			IsDestination: s.IsDestination,
		})
	}

	// Geometry is emitted as [lon, lat] pairs, GeoJSON order.
	var coordinates [][2]float64
	if len(route.Coordinates) > 0 {
		coordinates = make([][2]float64, 0, len(route.Coordinates))
		for _, c := range route.Coordinates {
			coordinates = append(coordinates, [2]float64{c.Lon, c.Lat})
		}
	}

	var currentLocation *models.Point
	if route.CurrentLocation != nil {
		currentLocation = &models.Point{
			Lat: route.CurrentLocation.Lat,
			Lon: route.CurrentLocation.Lon,
		}
	}

	for _, dropped := range route.Dropped {
		warnings = append(warnings, models.Warning{
			Code:    warningAddressDropped,
			Message: fmt.Sprintf("address could not be geocoded and was dropped: %s", dropped),
		})
	}

	return models.OptimizedRoute{
		Waypoints:       waypoints,
		TotalDistance:   route.TotalDistance,
		TotalDuration:   route.TotalDuration,
		TotalFuel:       route.TotalFuel,
		Steps:           steps,
		Coordinates:     coordinates,
		CurrentLocation: currentLocation,
		RealRouting:     route.RealRouting,
		Warnings:        warnings,
		GeneratedAt:     models.Timestamp(time.Now()),
	}
}
