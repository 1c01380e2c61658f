package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/filter"
	"github.com/campusnest/rentals/api/internal/repository"
)

// ListingsService implements browsing and landlord management of listings.
type ListingsService struct {
	listings repository.ListingsRepository
	profiles repository.ProfilesRepository
}

// NewListingsService builds a ListingsService.
func NewListingsService(listings repository.ListingsRepository, profiles repository.ProfilesRepository) *ListingsService {
	return &ListingsService{listings: listings, profiles: profiles}
}

// Search returns the listings matching criteria, newest first. Equality and range
// criteria are pushed down to the repository; the filter engine then runs over the
// returned rows so the result does not depend on how the store evaluates them.
func (s *ListingsService) Search(ctx context.Context, criteria filter.Criteria) ([]entity.Listing, error) {
	if criteria.Location != nil {
		location := locationLabel(*criteria.Location)
		criteria.Location = &location
	}

	listings, err := s.listings.List(ctx, queryFromCriteria(criteria))
	if err != nil {
		return nil, err
	}
	return filter.Apply(listings, criteria), nil
}

// Get returns a single listing.
func (s *ListingsService) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	return s.listings.FindByID(ctx, id)
}

// Mine lists every listing owned by the caller regardless of status.
func (s *ListingsService) Mine(ctx context.Context, caller Caller) ([]entity.Listing, error) {
	return s.listings.List(ctx, repository.ListingQuery{LandlordID: &caller.ID})
}

// Create publishes a new listing owned by the caller.
func (s *ListingsService) Create(ctx context.Context, caller Caller, req dto.ListingRequest) (*entity.Listing, error) {
	if caller.Role != entity.RoleLandlord {
		return nil, ErrForbidden
	}

	listing := entity.Listing{
		IsFurnished:    req.IsFurnished,
		Images:         cleanStrings(req.Images),
		Amenities:      cleanStrings(req.Amenities),
		Highlights:     cleanStrings(req.Highlights),
		Transportation: cleanTransportation(req.Transportation),
		LandlordEmail:  caller.Email,
	}

	var err error
	if listing.Title, err = requireText("title", req.Title); err != nil {
		return nil, err
	}
	if listing.Description, err = requireText("description", req.Description); err != nil {
		return nil, err
	}
	if listing.Address, err = requireText("address", req.Address); err != nil {
		return nil, err
	}
	location, err := requireText("location", req.Location)
	if err != nil {
		return nil, err
	}
	listing.Location = locationLabel(location)

	if req.Price < 0 || req.Bedrooms < 0 || req.Bathrooms < 0 || req.SquareFeet < 0 {
		return nil, invalidf("price, bedrooms, bathrooms and square_feet must not be negative")
	}
	listing.Price = req.Price
	listing.Bedrooms = req.Bedrooms
	listing.Bathrooms = req.Bathrooms
	listing.SquareFeet = req.SquareFeet

	if req.LeaseDuration != nil && *req.LeaseDuration <= 0 {
		return nil, invalidf("lease_duration must be positive")
	}
	listing.LeaseDuration = req.LeaseDuration

	listing.PropertyType = entity.PropertyType(strings.ToLower(strings.TrimSpace(req.PropertyType)))
	if !listing.PropertyType.Valid() {
		return nil, invalidf("property_type must be studio or apartment")
	}
	listing.Status = entity.ListingStatusAvailable
	if req.Status != "" {
		listing.Status = entity.ListingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		if !listing.Status.Valid() {
			return nil, invalidf("status must be available, rented or maintenance")
		}
	}
	if listing.PropertyType == entity.PropertyTypeStudio {
		listing.Bedrooms = 0
	}

	landlordID := caller.ID
	listing.LandlordID = &landlordID
	if profile, err := s.profiles.FindByID(ctx, caller.ID); err == nil {
		listing.LandlordName = profile.FullName
		listing.LandlordPhone = profile.Phone
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	return s.listings.Create(ctx, &listing)
}

// Update applies a partial update to a listing owned by the caller.
func (s *ListingsService) Update(ctx context.Context, caller Caller, id uuid.UUID, req dto.UpdateListingRequest) (*entity.Listing, error) {
	if caller.Role != entity.RoleLandlord {
		return nil, ErrForbidden
	}

	current, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(caller.ID) {
		return nil, repository.ErrListingNotFound
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	propertyType := current.PropertyType
	if patch.PropertyType != nil {
		propertyType = *patch.PropertyType
	}
	if propertyType == entity.PropertyTypeStudio && (patch.Bedrooms != nil || patch.PropertyType != nil) {
		zero := 0
		patch.Bedrooms = &zero
	}

	return s.listings.Update(ctx, id, caller.ID, patch)
}

// Delete removes a listing owned by the caller.
func (s *ListingsService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if caller.Role != entity.RoleLandlord {
		return ErrForbidden
	}
	return s.listings.Delete(ctx, id, caller.ID)
}

func buildPatch(req dto.UpdateListingRequest) (repository.ListingPatch, error) {
	var patch repository.ListingPatch

	texts := []struct {
		field string
		in    *string
		out   **string
	}{
		{"title", req.Title, &patch.Title},
		{"description", req.Description, &patch.Description},
		{"address", req.Address, &patch.Address},
		{"location", req.Location, &patch.Location},
	}
	for _, f := range texts {
		if f.in == nil {
			continue
		}
		value, err := requireText(f.field, *f.in)
		if err != nil {
			return patch, err
		}
		*f.out = &value
	}
	if patch.Location != nil {
		label := locationLabel(*patch.Location)
		patch.Location = &label
	}

	counts := []struct {
		field string
		in    *int
		out   **int
	}{
		{"price", req.Price, &patch.Price},
		{"bedrooms", req.Bedrooms, &patch.Bedrooms},
		{"bathrooms", req.Bathrooms, &patch.Bathrooms},
		{"square_feet", req.SquareFeet, &patch.SquareFeet},
	}
	for _, f := range counts {
		if f.in == nil {
			continue
		}
		if *f.in < 0 {
			return patch, invalidf("%s must not be negative", f.field)
		}
		value := *f.in
		*f.out = &value
	}

	if req.Images != nil {
		images := cleanStrings(*req.Images)
		patch.Images = &images
	}
	if req.Amenities != nil {
		amenities := cleanStrings(*req.Amenities)
		patch.Amenities = &amenities
	}
	if req.Highlights != nil {
		highlights := cleanStrings(*req.Highlights)
		patch.Highlights = &highlights
	}
	patch.IsFurnished = req.IsFurnished

	if req.LeaseDuration.Set {
		if v := req.LeaseDuration.Value; v != nil && *v <= 0 {
			return patch, invalidf("lease_duration must be positive")
		}
		lease := req.LeaseDuration.Value
		patch.LeaseDuration = &lease
	}
	if req.PropertyType != nil {
		propertyType := entity.PropertyType(strings.ToLower(strings.TrimSpace(*req.PropertyType)))
		if !propertyType.Valid() {
			return patch, invalidf("property_type must be studio or apartment")
		}
		patch.PropertyType = &propertyType
	}
	if req.Status != nil {
		status := entity.ListingStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		if !status.Valid() {
			return patch, invalidf("status must be available, rented or maintenance")
		}
		patch.Status = &status
	}
	if req.Transportation != nil {
		transportation := cleanTransportation(*req.Transportation)
		patch.Transportation = &transportation
	}
	return patch, nil
}

// locationLabel canonicalises a location so "old town" and "Old Town" are one label.
// Casers are stateful, so each call gets its own.
func locationLabel(location string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(location), " "))
}

func cleanTransportation(values map[string]string) map[string]string {
	cleaned := make(map[string]string, len(values))
	for mode, text := range values {
		mode = strings.ToLower(strings.TrimSpace(mode))
		text = strings.TrimSpace(text)
		if mode == "" || text == "" {
			continue
		}
		cleaned[mode] = text
	}
	return cleaned
}

func queryFromCriteria(c filter.Criteria) repository.ListingQuery {
	query := repository.ListingQuery{
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		Location:      c.Location,
		Bedrooms:      c.Bedrooms,
		Bathrooms:     c.Bathrooms,
		MinSquareFeet: c.MinSquareFeet,
		PropertyType:  c.PropertyType,
		LeaseDuration: c.LeaseDuration,
		Status:        c.Status,
		Search:        strings.TrimSpace(c.Search),
	}
	if c.Furnished != filter.Any {
		furnished := c.Furnished == filter.Yes
		query.Furnished = &furnished
	}
	return query
}
