package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/repository"
)

// ReviewsService manages tenant reviews of listings.
type ReviewsService struct {
	reviews repository.ReviewsRepository
}

// NewReviewsService builds a ReviewsService.
func NewReviewsService(reviews repository.ReviewsRepository) *ReviewsService {
	return &ReviewsService{reviews: reviews}
}

// List returns the reviews of a listing, newest first.
func (s *ReviewsService) List(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error) {
	return s.reviews.ListByProperty(ctx, propertyID)
}

// Create stores a review written by a tenant.
func (s *ReviewsService) Create(ctx context.Context, caller Caller, propertyID uuid.UUID, req dto.ReviewRequest) (*entity.Review, error) {
	if caller.Role != entity.RoleTenant {
		return nil, ErrForbidden
	}
	comment, err := validateReview(req)
	if err != nil {
		return nil, err
	}
	return s.reviews.Create(ctx, propertyID, caller.ID, req.Rating, comment)
}

// Update edits one of the caller's reviews.
func (s *ReviewsService) Update(ctx context.Context, caller Caller, id uuid.UUID, req dto.ReviewRequest) (*entity.Review, error) {
	comment, err := validateReview(req)
	if err != nil {
		return nil, err
	}
	return s.reviews.Update(ctx, id, caller.ID, req.Rating, comment)
}

// Delete removes one of the caller's reviews.
func (s *ReviewsService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	return s.reviews.Delete(ctx, id, caller.ID)
}

func validateReview(req dto.ReviewRequest) (string, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return "", invalidf("rating must be between 1 and 5")
	}
	return requireText("comment", req.Comment)
}
