package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/assistant"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/filter"
	"github.com/campusnest/rentals/api/internal/session"
)

// ListingSearcher runs listing searches for the widget.
type ListingSearcher interface {
	Search(ctx context.Context, criteria filter.Criteria) ([]entity.Listing, error)
}

// AssistantHandler serves the housing assistant over REST and WebSocket.
type AssistantHandler struct {
	assistant *assistant.Assistant
	accessor  assistant.ListingsAccessor
	listings  ListingSearcher
	broker    session.Broker
	origins   []string
	logger    *slog.Logger
}

// NewAssistantHandler constructs an AssistantHandler. allowedOrigins restricts socket
// upgrades; "*" allows every origin.
func NewAssistantHandler(a *assistant.Assistant, accessor assistant.ListingsAccessor, listings ListingSearcher, broker session.Broker, allowedOrigins []string, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: a,
		accessor:  accessor,
		listings:  listings,
		broker:    broker,
		origins:   allowedOrigins,
		logger:    logger,
	}
}

// Suggestions handles GET /assistant/suggestions.
func (h *AssistantHandler) Suggestions(c echo.Context) error {
	return Success(c, http.StatusOK, "suggestions retrieved", assistant.Suggestions())
}

// Respond handles POST /assistant/respond. Lookup failures are answered with the
// apology text, never with an error status.
func (h *AssistantHandler) Respond(c echo.Context) error {
	var req dto.AssistantRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Message) == "" {
		return Error(c, http.StatusBadRequest, "message is required")
	}

	reply := h.assistant.Respond(c.Request().Context(), req.Message, h.accessor)
	return Success(c, http.StatusOK, "reply generated", dto.AssistantResponse{Reply: reply})
}

func (h *AssistantHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
