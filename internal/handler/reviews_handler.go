package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/contracts"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/service"
)

// ReviewsHandler exposes listing reviews.
type ReviewsHandler struct {
	reviews *service.ReviewsService
	logger  *slog.Logger
}

// NewReviewsHandler constructs a ReviewsHandler.
func NewReviewsHandler(reviews *service.ReviewsService, logger *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews, logger: logger}
}

// List handles GET /listings/:id/reviews.
func (h *ReviewsHandler) List(c echo.Context) error {
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	reviews, err := h.reviews.List(c.Request().Context(), propertyID)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load reviews")
	}
	return Success(c, http.StatusOK, "reviews retrieved", reviews)
}

// Create handles POST /listings/:id/reviews.
func (h *ReviewsHandler) Create(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	var req dto.ReviewRequest
	if err := bindValidated(c, contracts.Review, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	review, err := h.reviews.Create(c.Request().Context(), caller, propertyID, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to submit review")
	}
	return Created(c, "review submitted", review)
}

// Update handles PATCH /reviews/:id.
func (h *ReviewsHandler) Update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "review not found")
	}
	var req dto.ReviewRequest
	if err := bindValidated(c, contracts.Review, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	review, err := h.reviews.Update(c.Request().Context(), caller, id, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to update review")
	}
	return Success(c, http.StatusOK, "review updated", review)
}

// Delete handles DELETE /reviews/:id.
func (h *ReviewsHandler) Delete(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "review not found")
	}
	if err := h.reviews.Delete(c.Request().Context(), caller, id); err != nil {
		return errorResponse(c, h.logger, err, "failed to delete review")
	}
	return Success(c, http.StatusOK, "review deleted", nil)
}
