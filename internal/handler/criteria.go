package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/filter"
)

// statusAny disables the default status constraint of public searches.
const statusAny = "any"

// criteriaFromQuery parses raw query parameters. Public searches only see available
// listings unless status is given explicitly.
func criteriaFromQuery(q dto.ListingsQuery) (filter.Criteria, error) {
	var (
		c   filter.Criteria
		err error
	)

	ints := []struct {
		name string
		raw  string
		dst  **int
	}{
		{"min_price", q.MinPrice, &c.MinPrice},
		{"max_price", q.MaxPrice, &c.MaxPrice},
		{"bedrooms", q.Bedrooms, &c.Bedrooms},
		{"bathrooms", q.Bathrooms, &c.Bathrooms},
		{"min_sqft", q.MinSquareFeet, &c.MinSquareFeet},
		{"lease_duration", q.LeaseDuration, &c.LeaseDuration},
	}
	for _, p := range ints {
		if *p.dst, err = parseCount(p.name, p.raw); err != nil {
			return filter.Criteria{}, err
		}
	}

	if location := strings.TrimSpace(q.Location); location != "" {
		c.Location = &location
	}

	furnished, ok := filter.ParseTri(q.Furnished)
	if !ok {
		return filter.Criteria{}, fmt.Errorf("furnished must be yes, no or any")
	}
	c.Furnished = furnished

	if c.PropertyType, err = parsePropertyType(q.PropertyType); err != nil {
		return filter.Criteria{}, err
	}

	switch status := strings.ToLower(strings.TrimSpace(q.Status)); status {
	case "":
		available := entity.ListingStatusAvailable
		c.Status = &available
	case statusAny:
	default:
		s := entity.ListingStatus(status)
		if !s.Valid() {
			return filter.Criteria{}, fmt.Errorf("status must be available, rented, maintenance or any")
		}
		c.Status = &s
	}

	c.Search = strings.TrimSpace(q.Search)
	return c, nil
}

// criteriaFromSearch converts the criteria of a socket search frame. Unlike query
// parameters they carry no default status.
func criteriaFromSearch(s dto.SearchCriteria) (filter.Criteria, error) {
	c := filter.Criteria{
		MinPrice:      s.MinPrice,
		MaxPrice:      s.MaxPrice,
		Bedrooms:      s.Bedrooms,
		Bathrooms:     s.Bathrooms,
		MinSquareFeet: s.MinSquareFeet,
		LeaseDuration: s.LeaseDuration,
		Search:        strings.TrimSpace(s.Search),
	}
	for name, v := range map[string]*int{
		"min_price": s.MinPrice, "max_price": s.MaxPrice, "bedrooms": s.Bedrooms,
		"bathrooms": s.Bathrooms, "min_sqft": s.MinSquareFeet, "lease_duration": s.LeaseDuration,
	} {
		if v != nil && *v < 0 {
			return filter.Criteria{}, fmt.Errorf("%s must not be negative", name)
		}
	}
	if s.Location != nil {
		if location := strings.TrimSpace(*s.Location); location != "" {
			c.Location = &location
		}
	}

	furnished, ok := filter.ParseTri(s.Furnished)
	if !ok {
		return filter.Criteria{}, fmt.Errorf("furnished must be yes, no or any")
	}
	c.Furnished = furnished

	var err error
	if s.PropertyType != nil {
		if c.PropertyType, err = parsePropertyType(*s.PropertyType); err != nil {
			return filter.Criteria{}, err
		}
	}
	if s.Status != nil {
		if status := strings.ToLower(strings.TrimSpace(*s.Status)); status != "" && status != statusAny {
			st := entity.ListingStatus(status)
			if !st.Valid() {
				return filter.Criteria{}, fmt.Errorf("status must be available, rented, maintenance or any")
			}
			c.Status = &st
		}
	}
	return c, nil
}

func parseCount(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return &n, nil
}

func parsePropertyType(raw string) (*entity.PropertyType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == statusAny {
		return nil, nil
	}
	t := entity.PropertyType(raw)
	if !t.Valid() {
		return nil, fmt.Errorf("property_type must be studio or apartment")
	}
	return &t, nil
}
