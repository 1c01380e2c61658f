package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/auth"
)

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	manager := auth.NewJWTManager("secret", 0)
	userID := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	token, err := manager.GenerateToken(userID, "user@example.com", "landlord")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := map[string]struct {
		header     string
		expectCode int
	}{
		"missing header": {
			expectCode: http.StatusUnauthorized,
		},
		"invalid header": {
			header:     "Basic token",
			expectCode: http.StatusUnauthorized,
		},
		"invalid token": {
			header:     "Bearer invalid",
			expectCode: http.StatusUnauthorized,
		},
		"success": {
			header:     "Bearer " + token,
			expectCode: http.StatusOK,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			executed := false
			mw := JWT(manager)
			err := mw(func(c echo.Context) error {
				executed = true
				user, ok := CurrentUser(c)
				if !ok || user.ID != userID || user.Role != "landlord" || user.Email != "user@example.com" {
					t.Fatalf("expected user in context, got %+v", user)
				}
				return c.NoContent(http.StatusOK)
			})(c)

			if tt.expectCode == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !executed {
					t.Fatalf("expected next handler to be executed")
				}
			} else {
				if err != nil {
					t.Fatalf("middleware returned error: %v", err)
				}
				if executed {
					t.Fatalf("next handler must not run")
				}
				if rec.Code != tt.expectCode {
					t.Fatalf("expected status %d, got %d", tt.expectCode, rec.Code)
				}
			}
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	e := echo.New()
	manager := auth.NewJWTManager("secret", 0)
	userID := uuid.New()
	token, err := manager.GenerateToken(userID, "user@example.com", "tenant")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := map[string]struct {
		target     string
		header     string
		expectUser bool
	}{
		"anonymous":       {target: "/"},
		"header token":    {target: "/", header: "Bearer " + token, expectUser: true},
		"query token":     {target: "/?token=" + token, expectUser: true},
		"invalid token":   {target: "/?token=garbage"},
		"malformed token": {target: "/", header: "Bearer"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			called := false
			err := OptionalJWT(manager)(func(c echo.Context) error {
				called = true
				user, ok := CurrentUser(c)
				if ok != tt.expectUser {
					t.Fatalf("expected user=%v, got %v", tt.expectUser, ok)
				}
				if ok && user.ID != userID {
					t.Fatalf("unexpected user %+v", user)
				}
				return nil
			})(c)
			if err != nil || !called {
				t.Fatalf("expected handler to run, err=%v", err)
			}
		})
	}
}
