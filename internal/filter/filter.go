// Package filter narrows a set of listings down to the ones matching user criteria.
//
// Criteria values are already validated: the HTTP layer parses raw query strings and
// rejects malformed input before it reaches Apply.
package filter

import (
	"strings"

	"github.com/campusnest/rentals/api/internal/entity"
)

// Tri is a tri-state flag where the zero value means "no constraint".
type Tri int

// Tri-state values.
const (
	Any Tri = iota
	Yes
	No
)

// ParseTri converts user input into a Tri. The boolean result is false for unknown input.
func ParseTri(value string) (Tri, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "any":
		return Any, true
	case "yes", "true", "1":
		return Yes, true
	case "no", "false", "0":
		return No, true
	}
	return Any, false
}

// TriOf lifts a boolean into a constraining Tri.
func TriOf(v bool) Tri {
	if v {
		return Yes
	}
	return No
}

// Criteria describes the constraints a listing must satisfy. Nil pointers, Any and an
// empty Search are all "unset".
type Criteria struct {
	MinPrice      *int
	MaxPrice      *int
	Location      *string
	Bedrooms      *int
	Bathrooms     *int
	Furnished     Tri
	MinSquareFeet *int
	PropertyType  *entity.PropertyType
	LeaseDuration *int
	Status        *entity.ListingStatus
	Search        string
}

// IsEmpty reports whether no criterion is active.
func (c Criteria) IsEmpty() bool {
	return len(c.predicates()) == 0
}

type predicate func(entity.Listing) bool

func (c Criteria) predicates() []predicate {
	var preds []predicate

	if c.MinPrice != nil || c.MaxPrice != nil {
		lower := 0
		if c.MinPrice != nil {
			lower = *c.MinPrice
		}
		upper, bounded := 0, c.MaxPrice != nil
		if bounded {
			upper = *c.MaxPrice
		}
		preds = append(preds, func(l entity.Listing) bool {
			if l.Price < lower {
				return false
			}
			return !bounded || l.Price <= upper
		})
	}
	if c.Location != nil {
		location := *c.Location
		preds = append(preds, func(l entity.Listing) bool { return l.Location == location })
	}
	if c.Bedrooms != nil {
		bedrooms := *c.Bedrooms
		preds = append(preds, func(l entity.Listing) bool { return l.Bedrooms == bedrooms })
	}
	if c.Bathrooms != nil {
		bathrooms := *c.Bathrooms
		preds = append(preds, func(l entity.Listing) bool { return l.Bathrooms == bathrooms })
	}
	if c.Furnished != Any {
		want := c.Furnished == Yes
		preds = append(preds, func(l entity.Listing) bool { return l.IsFurnished == want })
	}
	if c.MinSquareFeet != nil {
		minSqft := *c.MinSquareFeet
		preds = append(preds, func(l entity.Listing) bool { return l.SquareFeet >= minSqft })
	}
	if c.PropertyType != nil {
		propertyType := *c.PropertyType
		preds = append(preds, func(l entity.Listing) bool { return l.PropertyType == propertyType })
	}
	if c.LeaseDuration != nil {
		months := *c.LeaseDuration
		preds = append(preds, func(l entity.Listing) bool {
			return l.LeaseDuration != nil && *l.LeaseDuration == months
		})
	}
	if c.Status != nil {
		status := *c.Status
		preds = append(preds, func(l entity.Listing) bool { return l.Status == status })
	}
	if token := strings.ToLower(c.Search); token != "" {
		preds = append(preds, func(l entity.Listing) bool { return matchesText(l, token) })
	}

	return preds
}

// Apply returns the listings satisfying every active criterion, in input order.
// With no active criterion the input slice is returned as is.
func Apply(listings []entity.Listing, c Criteria) []entity.Listing {
	preds := c.predicates()
	if len(preds) == 0 {
		return listings
	}

	result := make([]entity.Listing, 0, len(listings))
	for _, listing := range listings {
		if matchesAll(listing, preds) {
			result = append(result, listing)
		}
	}
	return result
}

// Matches reports whether a single listing satisfies the criteria.
func Matches(l entity.Listing, c Criteria) bool {
	return matchesAll(l, c.predicates())
}

func matchesAll(l entity.Listing, preds []predicate) bool {
	for _, p := range preds {
		if !p(l) {
			return false
		}
	}
	return true
}

// token must already be lower-cased.
func matchesText(l entity.Listing, token string) bool {
	return strings.Contains(strings.ToLower(l.Title), token) ||
		strings.Contains(strings.ToLower(l.Description), token) ||
		strings.Contains(strings.ToLower(l.Address), token)
}
