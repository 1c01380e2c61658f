package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/repository"
)

// InquiriesService accepts contact requests and shows them to landlords.
type InquiriesService struct {
	inquiries repository.InquiriesRepository
	listings  repository.ListingsRepository
	region    string
}

// NewInquiriesService builds an InquiriesService. region is the default phone region.
func NewInquiriesService(inquiries repository.InquiriesRepository, listings repository.ListingsRepository, region string) *InquiriesService {
	return &InquiriesService{inquiries: inquiries, listings: listings, region: normalizeRegion(region)}
}

// Submit validates and stores an inquiry for an existing listing.
func (s *InquiriesService) Submit(ctx context.Context, propertyID uuid.UUID, req dto.InquiryRequest) (*entity.Inquiry, error) {
	name, err := requireText("name", req.Name)
	if err != nil {
		return nil, err
	}
	message, err := requireText("message", req.Message)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	phone, err := normalizeOptionalPhone(req.Phone, s.region)
	if err != nil {
		return nil, err
	}

	if _, err := s.listings.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	return s.inquiries.Create(ctx, &entity.Inquiry{
		PropertyID: propertyID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Message:    message,
	})
}

// ListForLandlord returns the inquiries of one of the caller's listings.
func (s *InquiriesService) ListForLandlord(ctx context.Context, caller Caller, propertyID uuid.UUID) ([]entity.Inquiry, error) {
	if caller.Role != entity.RoleLandlord {
		return nil, ErrForbidden
	}
	listing, err := s.listings.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(caller.ID) {
		return nil, repository.ErrListingNotFound
	}
	return s.inquiries.ListByProperty(ctx, propertyID)
}
