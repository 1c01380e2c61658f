package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/contracts"
	"github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/service"
)

const maxBodyBytes = 1 << 20

// errorResponse maps a service or repository error onto the response envelope. Errors
// that are not part of the API contract are logged and replaced by fallback.
func errorResponse(c echo.Context, logger *slog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, contracts.ErrInvalidPayload):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, repository.ErrListingNotFound):
		return Error(c, http.StatusNotFound, "listing not found")
	case errors.Is(err, repository.ErrReviewNotFound):
		return Error(c, http.StatusNotFound, "review not found")
	case errors.Is(err, repository.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "profile not found")
	case errors.Is(err, repository.ErrUserNotFound):
		return Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return Error(c, http.StatusConflict, "email already exists")
	case errors.Is(err, auth.ErrGoogleDisabled):
		return Error(c, http.StatusServiceUnavailable, "google sign-in is not configured")
	}

	logger.ErrorContext(c.Request().Context(), fallback,
		slog.String("request_id", middleware.RequestIDFromContext(c)),
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", err),
	)
	return Error(c, http.StatusInternalServerError, fallback)
}

// callerFrom converts the authenticated user into a service caller.
func callerFrom(c echo.Context) (service.Caller, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{ID: user.ID, Email: user.Email, Role: user.Role}, true
}

func uuidParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// bindValidated reads the body, checks it against the named schema and decodes it.
func bindValidated(c echo.Context, schema string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: unreadable body", contracts.ErrInvalidPayload)
	}
	if err := contracts.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrInvalidPayload, err)
	}
	return nil
}
