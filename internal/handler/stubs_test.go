package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newContext builds an echo context for a JSON request. A non-nil user is attached as
// the authenticated caller.
func newContext(e *echo.Echo, method, target, body string, user *middleware.User) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextKeyUserID, user.ID)
		c.Set(middleware.ContextKeyUserEmail, user.Email)
		c.Set(middleware.ContextKeyUserRole, user.Role)
	}
	return c, rec
}

type stubUsersRepo struct {
	findByEmail       func(ctx context.Context, email string) (*entity.User, error)
	createWithProfile func(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error)
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepo) CreateWithProfile(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error) {
	if s.createWithProfile != nil {
		return s.createWithProfile(ctx, account)
	}
	return nil, nil, errors.New("not implemented")
}

type stubProfilesRepo struct {
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	update   func(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error)
}

func (s *stubProfilesRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, repository.ErrProfileNotFound
}

func (s *stubProfilesRepo) Update(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error) {
	if s.update != nil {
		return s.update(ctx, id, fullName, phone)
	}
	return nil, errors.New("not implemented")
}

type stubListingsRepo struct {
	list     func(ctx context.Context, query repository.ListingQuery) ([]entity.Listing, error)
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	delete   func(ctx context.Context, id, landlordID uuid.UUID) error
}

func (s *stubListingsRepo) List(ctx context.Context, query repository.ListingQuery) ([]entity.Listing, error) {
	if s.list != nil {
		return s.list(ctx, query)
	}
	return nil, errors.New("not implemented")
}

func (s *stubListingsRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, repository.ErrListingNotFound
}

func (s *stubListingsRepo) Create(ctx context.Context, listing *entity.Listing) (*entity.Listing, error) {
	return nil, errors.New("not implemented")
}

func (s *stubListingsRepo) Update(ctx context.Context, id, landlordID uuid.UUID, patch repository.ListingPatch) (*entity.Listing, error) {
	return nil, errors.New("not implemented")
}

func (s *stubListingsRepo) Delete(ctx context.Context, id, landlordID uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id, landlordID)
	}
	return errors.New("not implemented")
}

type stubReviewsRepo struct {
	create func(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error)
	delete func(ctx context.Context, id, userID uuid.UUID) error
}

func (s *stubReviewsRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error) {
	return []entity.Review{}, nil
}

func (s *stubReviewsRepo) Create(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	if s.create != nil {
		return s.create(ctx, propertyID, userID, rating, comment)
	}
	return nil, errors.New("not implemented")
}

func (s *stubReviewsRepo) Update(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	return nil, repository.ErrReviewNotFound
}

func (s *stubReviewsRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id, userID)
	}
	return errors.New("not implemented")
}

type stubInquiriesRepo struct {
	create func(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error)
}

func (s *stubInquiriesRepo) Create(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error) {
	if s.create != nil {
		return s.create(ctx, inquiry)
	}
	return nil, errors.New("not implemented")
}

func (s *stubInquiriesRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Inquiry, error) {
	return []entity.Inquiry{}, nil
}

type stubAccessor struct {
	inPriceRange func(ctx context.Context, minPrice, maxPrice, limit int) ([]entity.Listing, error)
}

func (s *stubAccessor) InPriceRange(ctx context.Context, minPrice, maxPrice, limit int) ([]entity.Listing, error) {
	if s.inPriceRange != nil {
		return s.inPriceRange(ctx, minPrice, maxPrice, limit)
	}
	return nil, nil
}

func (s *stubAccessor) PriceSpan(ctx context.Context) (int, int, bool, error) {
	return 0, 0, false, nil
}

func (s *stubAccessor) Addresses(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}

func (s *stubAccessor) BedroomCounts(ctx context.Context) ([]int, error) {
	return nil, nil
}

func (s *stubAccessor) AmenitySets(ctx context.Context, limit int) ([][]string, error) {
	return nil, nil
}
