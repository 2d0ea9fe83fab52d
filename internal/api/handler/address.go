package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/api/models"
	"github.com/droproute/droproute/internal/api/response"
)

// List pagination bounds.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AddressHandler handles address book endpoints.
type AddressHandler struct {
	service *address.Service
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *address.Service) *AddressHandler {
	return &AddressHandler{service: service}
}

// ListAddresses handles GET /v1/addresses - list addresses in entry order.
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	cursor := r.URL.Query().Get("cursor")

	page, err := h.service.List(r.Context(), limit, cursor)
	if err != nil {
		response.InternalError(w, r, "failed to list addresses")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreateAddress handles POST /v1/addresses - add an address to the book.
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var input models.AddressCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), &input)
	if err != nil {
		var validationErr *address.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create address")
		return
	}

	location := fmt.Sprintf("/v1/addresses/%s", created.ID)
	response.Created(w, r, location, created)
}

// ImportAddresses handles POST /v1/addresses/import - bulk import. Invalid
// items are rejected individually; the rest still import.
func (h *AddressHandler) ImportAddresses(w http.ResponseWriter, r *http.Request) {
	var input models.AddressImportRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Import(r.Context(), &input)
	if err != nil {
		var validationErr *address.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to import addresses")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetAddress handles GET /v1/addresses/{addressId}.
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	addressID := chi.URLParam(r, "addressId")

	addr, err := h.service.Get(r.Context(), addressID)
	if err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			response.NotFound(w, r, "address not found")
			return
		}
		response.InternalError(w, r, "failed to get address")
		return
	}

	response.JSON(w, r, http.StatusOK, addr)
}

// UpdateAddress handles PUT /v1/addresses/{addressId} - partial update.
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID := chi.URLParam(r, "addressId")

	var input models.AddressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), addressID, &input)
	if err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			response.NotFound(w, r, "address not found")
			return
		}
		var validationErr *address.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to update address")
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteAddress handles DELETE /v1/addresses/{addressId}.
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addressID := chi.URLParam(r, "addressId")

	if err := h.service.Delete(r.Context(), addressID); err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			response.NotFound(w, r, "address not found")
			return
		}
		response.InternalError(w, r, "failed to delete address")
		return
	}

	response.NoContent(w, r)
}
