package dto

import (
	"bytes"
	"encoding/json"
)

// ListingRequest is the body of a listing creation.
type ListingRequest struct {
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
	LeaseDuration  *int              `json:"lease_duration"`
	PropertyType   string            `json:"property_type"`
	Status         string            `json:"status"`
	Transportation map[string]string `json:"transportation"`
}

// UpdateListingRequest captures partial listing updates.
type UpdateListingRequest struct {
	Title          *string            `json:"title,omitempty"`
	Description    *string            `json:"description,omitempty"`
	Address        *string            `json:"address,omitempty"`
	Location       *string            `json:"location,omitempty"`
	Price          *int               `json:"price,omitempty"`
	Bedrooms       *int               `json:"bedrooms,omitempty"`
	Bathrooms      *int               `json:"bathrooms,omitempty"`
	SquareFeet     *int               `json:"square_feet,omitempty"`
	Images         *[]string          `json:"images,omitempty"`
	Amenities      *[]string          `json:"amenities,omitempty"`
	Highlights     *[]string          `json:"highlights,omitempty"`
	IsFurnished    *bool              `json:"is_furnished,omitempty"`
	LeaseDuration  NullableInt        `json:"lease_duration"`
	PropertyType   *string            `json:"property_type,omitempty"`
	Status         *string            `json:"status,omitempty"`
	Transportation *map[string]string `json:"transportation,omitempty"`
}

// NullableInt tells an absent field apart from an explicit null.
type NullableInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON records that the field was present.
func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ListingsQuery holds the raw query parameters of a listing search.
type ListingsQuery struct {
	MinPrice      string `query:"min_price"`
	MaxPrice      string `query:"max_price"`
	Location      string `query:"location"`
	Bedrooms      string `query:"bedrooms"`
	Bathrooms     string `query:"bathrooms"`
	Furnished     string `query:"furnished"`
	MinSquareFeet string `query:"min_sqft"`
	PropertyType  string `query:"property_type"`
	LeaseDuration string `query:"lease_duration"`
	Status        string `query:"status"`
	Search        string `query:"q"`
}
