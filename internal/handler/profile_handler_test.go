package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/service"
	"github.com/campusnest/rentals/api/internal/session"
)

func TestProfileHandler(t *testing.T) {
	e := echo.New()
	user := &middleware.User{ID: uuid.New(), Email: "ann@example.com", Role: entity.RoleTenant}

	repo := &stubProfilesRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
			return &entity.Profile{ID: id, Role: entity.RoleTenant, FullName: "Ann"}, nil
		},
		update: func(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error) {
			return &entity.Profile{ID: id, Role: entity.RoleTenant, FullName: fullName, Phone: phone}, nil
		},
	}
	broker := session.NewMemoryBroker()
	h := NewProfileHandler(service.NewProfilesService(repo, broker, "US", discardLogger()), discardLogger())

	t.Run("get", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/profile", "", user)
		if err := h.Get(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPatch, "/profile", `{"full_name":"Ann Lee","phone":"202-456-1111"}`, user)
		if err := h.Update(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid phone", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPatch, "/profile", `{"full_name":"Ann","phone":"12"}`, user)
		if err := h.Update(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/profile", "", nil)
		if err := h.Get(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
