package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/droproute/droproute/internal/api/models"
	"github.com/droproute/droproute/internal/api/response"
	"github.com/droproute/droproute/internal/settings"
)

// SettingsHandler handles route settings endpoints.
type SettingsHandler struct {
	service *settings.Service
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles GET /v1/settings - the current preference bundle,
// defaults when nothing has been stored.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load settings")
		return
	}

	response.JSON(w, r, http.StatusOK, settings.ToAPI(s))
}

// UpdateSettings handles PUT /v1/settings - partial update, absent fields
// keep their current values.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.RouteSettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), &input)
	if err != nil {
		var validationErr *settings.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to update settings")
		return
	}

	response.JSON(w, r, http.StatusOK, settings.ToAPI(updated))
}
