package router

import (
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/config"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/handler"
	middlewarepkg "github.com/campusnest/rentals/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Listings  *handler.ListingsHandler
	Reviews   *handler.ReviewsHandler
	Inquiries *handler.InquiriesHandler
	Profile   *handler.ProfileHandler
	Assistant *handler.AssistantHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	requireAuth := middlewarepkg.JWT(jwtManager)
	optionalAuth := middlewarepkg.OptionalJWT(jwtManager)

	e.GET("/healthz", handlers.Health.Health)

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)
	e.POST("/auth/google", handlers.Auth.Google)
	e.GET("/auth/session", handlers.Auth.Session, optionalAuth)
	e.POST("/auth/logout", handlers.Auth.Logout, requireAuth)

	e.GET("/listings", handlers.Listings.Search)
	e.GET("/listings/:id", handlers.Listings.Get)
	e.GET("/listings/:id/reviews", handlers.Reviews.List)
	e.POST("/listings/:id/inquiries", handlers.Inquiries.Create)

	e.GET("/assistant/suggestions", handlers.Assistant.Suggestions)
	e.POST("/assistant/respond", handlers.Assistant.Respond, middlewarepkg.RateLimiter(cfg.RateLimitAssistant))
	e.GET("/ws/assistant", handlers.Assistant.Socket, optionalAuth)

	secured := e.Group("")
	secured.Use(requireAuth)

	secured.POST("/listings/:id/reviews", handlers.Reviews.Create, middlewarepkg.RequireRole(entity.RoleTenant))
	secured.PATCH("/reviews/:id", handlers.Reviews.Update)
	secured.DELETE("/reviews/:id", handlers.Reviews.Delete)

	secured.GET("/profile", handlers.Profile.Get)
	secured.PATCH("/profile", handlers.Profile.Update)

	landlord := secured.Group("/landlord", middlewarepkg.RequireRole(entity.RoleLandlord))
	landlord.GET("/listings", handlers.Listings.Mine)
	landlord.POST("/listings", handlers.Listings.Create)
	landlord.PATCH("/listings/:id", handlers.Listings.Update)
	landlord.DELETE("/listings/:id", handlers.Listings.Delete)
	landlord.GET("/listings/:id/inquiries", handlers.Inquiries.ListForLandlord)
}
