package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/contracts"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/service"
)

// ListingsHandler exposes public browsing and landlord management of listings.
type ListingsHandler struct {
	listings *service.ListingsService
	logger   *slog.Logger
}

// NewListingsHandler constructs a ListingsHandler.
func NewListingsHandler(listings *service.ListingsService, logger *slog.Logger) *ListingsHandler {
	return &ListingsHandler{listings: listings, logger: logger}
}

// Search handles GET /listings.
func (h *ListingsHandler) Search(c echo.Context) error {
	var q dto.ListingsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return Error(c, http.StatusBadRequest, "invalid query parameters")
	}
	criteria, err := criteriaFromQuery(q)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	listings, err := h.listings.Search(c.Request().Context(), criteria)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load listings")
	}
	return Success(c, http.StatusOK, "listings retrieved", listings)
}

// Get handles GET /listings/:id.
func (h *ListingsHandler) Get(c echo.Context) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	listing, err := h.listings.Get(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load listing")
	}
	return Success(c, http.StatusOK, "listing retrieved", listing)
}

// Mine handles GET /landlord/listings.
func (h *ListingsHandler) Mine(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	listings, err := h.listings.Mine(c.Request().Context(), caller)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load listings")
	}
	return Success(c, http.StatusOK, "listings retrieved", listings)
}

// Create handles POST /landlord/listings.
func (h *ListingsHandler) Create(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	var req dto.ListingRequest
	if err := bindValidated(c, contracts.ListingCreate, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Create(c.Request().Context(), caller, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to create listing")
	}
	return Created(c, "listing created", listing)
}

// Update handles PATCH /landlord/listings/:id.
func (h *ListingsHandler) Update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	var req dto.UpdateListingRequest
	if err := bindValidated(c, contracts.ListingUpdate, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Update(c.Request().Context(), caller, id, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to update listing")
	}
	return Success(c, http.StatusOK, "listing updated", listing)
}

// Delete handles DELETE /landlord/listings/:id.
func (h *ListingsHandler) Delete(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	if err := h.listings.Delete(c.Request().Context(), caller, id); err != nil {
		return errorResponse(c, h.logger, err, "failed to delete listing")
	}
	return Success(c, http.StatusOK, "listing deleted", nil)
}
