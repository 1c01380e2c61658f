package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/service"
	"github.com/campusnest/rentals/api/internal/session"
)

func newAuthHandler(t *testing.T, users repository.UsersRepository) *AuthHandler {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := service.NewAuthService(users, &stubProfilesRepo{}, jwtManager, session.NewMemoryBroker(), service.WithAuthLogger(discardLogger()))
	return NewAuthHandler(svc, discardLogger())
}

func TestAuthHandler_Register(t *testing.T) {
	e := echo.New()

	tests := map[string]struct {
		body string
		repo *stubUsersRepo
		want int
	}{
		"invalid payload": {
			body: "{",
			repo: &stubUsersRepo{},
			want: http.StatusBadRequest,
		},
		"missing password": {
			body: `{"email":"a@example.com","full_name":"Ann"}`,
			repo: &stubUsersRepo{},
			want: http.StatusBadRequest,
		},
		"duplicate email": {
			body: `{"email":"a@example.com","password":"secret123","full_name":"Ann"}`,
			repo: &stubUsersRepo{createWithProfile: func(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error) {
				return nil, nil, repository.ErrEmailDuplicate
			}},
			want: http.StatusConflict,
		},
		"created": {
			body: `{"email":"A@Example.com","password":"secret123","full_name":"Ann","role":"landlord"}`,
			repo: &stubUsersRepo{createWithProfile: func(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error) {
				user := &entity.User{ID: uuid.New(), Email: account.Email, Role: account.Role}
				return user, &entity.Profile{ID: user.ID, Role: account.Role, FullName: account.FullName}, nil
			}},
			want: http.StatusCreated,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(e, http.MethodPost, "/auth/register", tc.body, nil)
			if err := newAuthHandler(t, tc.repo).Register(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := echo.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUsersRepo{findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
		if email != "ann@example.com" {
			return nil, repository.ErrUserNotFound
		}
		return &entity.User{ID: uuid.New(), Email: email, PasswordHash: string(hashed), Role: entity.RoleTenant}, nil
	}}

	t.Run("success", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"secret123"}`, nil)
		if err := newAuthHandler(t, repo).Login(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp struct {
			Data struct {
				AccessToken string `json:"access_token"`
				TokenType   string `json:"token_type"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Data.AccessToken == "" || resp.Data.TokenType != "Bearer" {
			t.Fatalf("unexpected login payload: %s", rec.Body.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"nope"}`, nil)
		if err := newAuthHandler(t, repo).Login(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPost, "/auth/login", `{"email":"bob@example.com","password":"secret123"}`, nil)
		if err := newAuthHandler(t, repo).Login(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_GoogleDisabled(t *testing.T) {
	c, rec := newContext(echo.New(), http.MethodPost, "/auth/google", `{"id_token":"abc"}`, nil)
	if err := newAuthHandler(t, &stubUsersRepo{}).Google(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	e := echo.New()

	t.Run("anonymous", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/auth/session", "", nil)
		if err := newAuthHandler(t, &stubUsersRepo{}).Session(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(resp["data"]) != "null" {
			t.Fatalf("expected null data, got %s", resp["data"])
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		user := &middleware.User{ID: uuid.New(), Email: "gone@example.com", Role: entity.RoleTenant}
		c, rec := newContext(e, http.MethodGet, "/auth/session", "", user)
		if err := newAuthHandler(t, &stubUsersRepo{}).Session(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()

	c, rec := newContext(e, http.MethodPost, "/auth/logout", "", nil)
	if err := newAuthHandler(t, &stubUsersRepo{}).Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	user := &middleware.User{ID: uuid.New(), Email: "ann@example.com", Role: entity.RoleTenant}
	c, rec = newContext(e, http.MethodPost, "/auth/logout", "", user)
	if err := newAuthHandler(t, &stubUsersRepo{}).Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
