package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)

// User is the authenticated principal attached to a request.
type User struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// CurrentUser returns the authenticated user, or false for anonymous requests.
func CurrentUser(c echo.Context) (User, bool) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return User{}, false
	}
	email, _ := c.Get(ContextKeyUserEmail).(string)
	role, _ := c.Get(ContextKeyUserRole).(string)
	return User{ID: id, Email: email, Role: role}, true
}
