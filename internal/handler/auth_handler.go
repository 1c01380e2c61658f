package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	resp, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, h.logger, err, "unable to register user")
	}
	return Created(c, "registration successful", resp)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorResponse(c, h.logger, err, "unable to authenticate")
	}
	return Success(c, http.StatusOK, "login successful", resp)
}

// Google handles POST /auth/google requests.
func (h *AuthHandler) Google(c echo.Context) error {
	var req dto.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.authService.Google(c.Request().Context(), req.IDToken)
	if err != nil {
		return errorResponse(c, h.logger, err, "unable to authenticate")
	}
	return Success(c, http.StatusOK, "login successful", resp)
}

// Logout handles POST /auth/logout requests.
func (h *AuthHandler) Logout(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	if err := h.authService.Logout(c.Request().Context(), caller); err != nil {
		// The token is stateless; a lost event only delays other tabs noticing.
		h.logger.WarnContext(c.Request().Context(), "publish sign out event", slog.Any("error", err))
	}
	return Success(c, http.StatusOK, "logged out", nil)
}

// Session handles GET /auth/session and returns the signed-in user or null.
func (h *AuthHandler) Session(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return Success(c, http.StatusOK, "no active session", nil)
	}
	user, err := h.authService.Session(c.Request().Context(), caller)
	if err != nil {
		return errorResponse(c, h.logger, err, "unable to load session")
	}
	return Success(c, http.StatusOK, "session active", user)
}
