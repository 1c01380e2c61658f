package entity

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType classifies the layout of a rental unit.
type PropertyType string

// Supported property types.
const (
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeApartment PropertyType = "apartment"
)

// Valid reports whether the property type is one of the supported values.
func (t PropertyType) Valid() bool {
	return t == PropertyTypeStudio || t == PropertyTypeApartment
}

// ListingStatus tracks whether a listing can currently be rented.
type ListingStatus string

// Supported listing statuses.
const (
	ListingStatusAvailable   ListingStatus = "available"
	ListingStatusRented      ListingStatus = "rented"
	ListingStatusMaintenance ListingStatus = "maintenance"
)

// Valid reports whether the status is one of the supported values.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusAvailable, ListingStatusRented, ListingStatusMaintenance:
		return true
	}
	return false
}

// Listing represents a rental property published by a landlord.
type Listing struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Address        string            `json:"address"`
	Location       string            `json:"location"`
	Price          int               `json:"price"`
	Bedrooms       int               `json:"bedrooms"`
	Bathrooms      int               `json:"bathrooms"`
	SquareFeet     int               `json:"square_feet"`
	Images         []string          `json:"images"`
	Amenities      []string          `json:"amenities"`
	Highlights     []string          `json:"highlights"`
	IsFurnished    bool              `json:"is_furnished"`
	LeaseDuration  *int              `json:"lease_duration,omitempty"`
	PropertyType   PropertyType      `json:"property_type"`
	Status         ListingStatus     `json:"status"`
	LandlordID     *uuid.UUID        `json:"landlord_id,omitempty"`
	LandlordName   string            `json:"landlord_name"`
	LandlordEmail  string            `json:"landlord_email"`
	LandlordPhone  *string           `json:"landlord_phone,omitempty"`
	Transportation map[string]string `json:"transportation,omitempty"`
	ReviewsCount   int               `json:"reviews_count"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OwnedBy reports whether the listing belongs to the given landlord.
func (l Listing) OwnedBy(landlordID uuid.UUID) bool {
	return l.LandlordID != nil && *l.LandlordID == landlordID
}
