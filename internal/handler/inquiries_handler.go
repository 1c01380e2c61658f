package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/contracts"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/service"
)

// InquiriesHandler accepts contact requests and lists them for landlords.
type InquiriesHandler struct {
	inquiries *service.InquiriesService
	logger    *slog.Logger
}

// NewInquiriesHandler constructs an InquiriesHandler.
func NewInquiriesHandler(inquiries *service.InquiriesService, logger *slog.Logger) *InquiriesHandler {
	return &InquiriesHandler{inquiries: inquiries, logger: logger}
}

// Create handles POST /listings/:id/inquiries.
func (h *InquiriesHandler) Create(c echo.Context) error {
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	var req dto.InquiryRequest
	if err := bindValidated(c, contracts.Inquiry, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.inquiries.Submit(c.Request().Context(), propertyID, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to send inquiry")
	}
	return Created(c, "inquiry sent", inquiry)
}

// ListForLandlord handles GET /landlord/listings/:id/inquiries.
func (h *InquiriesHandler) ListForLandlord(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	inquiries, err := h.inquiries.ListForLandlord(c.Request().Context(), caller, propertyID)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load inquiries")
	}
	return Success(c, http.StatusOK, "inquiries retrieved", inquiries)
}
