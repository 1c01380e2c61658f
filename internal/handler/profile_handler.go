package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/contracts"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/service"
)

// ProfileHandler exposes the caller's profile.
type ProfileHandler struct {
	profiles *service.ProfilesService
	logger   *slog.Logger
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *service.ProfilesService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	profile, err := h.profiles.Get(c.Request().Context(), caller)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to load profile")
	}
	return Success(c, http.StatusOK, "profile retrieved", profile)
}

// Update handles PATCH /profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	var req dto.ProfileRequest
	if err := bindValidated(c, contracts.Profile, &req); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	profile, err := h.profiles.Update(c.Request().Context(), caller, req)
	if err != nil {
		return errorResponse(c, h.logger, err, "failed to update profile")
	}
	return Success(c, http.StatusOK, "profile updated", profile)
}
