package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a tenant's rating of a listing.
type Review struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"property_id"`
	UserID       uuid.UUID `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewer_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Edited reports whether the review changed after it was first written.
func (r Review) Edited() bool {
	return !r.UpdatedAt.Equal(r.CreatedAt)
}

// Inquiry is a contact request sent to the landlord of a listing.
type Inquiry struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
