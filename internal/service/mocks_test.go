package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/session"
)

type mockUsersRepository struct {
	findByEmail       func(ctx context.Context, email string) (*entity.User, error)
	findByID          func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	createWithProfile func(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error)
}

func (m *mockUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, errors.New("findByEmail not implemented")
}

func (m *mockUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockUsersRepository) CreateWithProfile(ctx context.Context, account repository.NewAccount) (*entity.User, *entity.Profile, error) {
	if m.createWithProfile != nil {
		return m.createWithProfile(ctx, account)
	}
	return nil, nil, errors.New("CreateWithProfile not implemented")
}

type mockProfilesRepository struct {
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	update   func(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error)
}

func (m *mockProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfilesRepository) Update(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error) {
	if m.update != nil {
		return m.update(ctx, id, fullName, phone)
	}
	return nil, errors.New("Update not implemented")
}

type mockListingsRepository struct {
	list     func(ctx context.Context, query repository.ListingQuery) ([]entity.Listing, error)
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	create   func(ctx context.Context, listing *entity.Listing) (*entity.Listing, error)
	update   func(ctx context.Context, id, landlordID uuid.UUID, patch repository.ListingPatch) (*entity.Listing, error)
	delete   func(ctx context.Context, id, landlordID uuid.UUID) error
}

func (m *mockListingsRepository) List(ctx context.Context, query repository.ListingQuery) ([]entity.Listing, error) {
	if m.list != nil {
		return m.list(ctx, query)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockListingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, repository.ErrListingNotFound
}

func (m *mockListingsRepository) Create(ctx context.Context, listing *entity.Listing) (*entity.Listing, error) {
	if m.create != nil {
		return m.create(ctx, listing)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockListingsRepository) Update(ctx context.Context, id, landlordID uuid.UUID, patch repository.ListingPatch) (*entity.Listing, error) {
	if m.update != nil {
		return m.update(ctx, id, landlordID, patch)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockListingsRepository) Delete(ctx context.Context, id, landlordID uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id, landlordID)
	}
	return errors.New("Delete not implemented")
}

type mockReviewsRepository struct {
	listByProperty func(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error)
	create         func(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error)
	update         func(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*entity.Review, error)
	delete         func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockReviewsRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error) {
	if m.listByProperty != nil {
		return m.listByProperty(ctx, propertyID)
	}
	return nil, errors.New("ListByProperty not implemented")
}

func (m *mockReviewsRepository) Create(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	if m.create != nil {
		return m.create(ctx, propertyID, userID, rating, comment)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockReviewsRepository) Update(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	if m.update != nil {
		return m.update(ctx, id, userID, rating, comment)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockReviewsRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id, userID)
	}
	return errors.New("Delete not implemented")
}

type mockInquiriesRepository struct {
	create         func(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error)
	listByProperty func(ctx context.Context, propertyID uuid.UUID) ([]entity.Inquiry, error)
}

func (m *mockInquiriesRepository) Create(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error) {
	if m.create != nil {
		return m.create(ctx, inquiry)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockInquiriesRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Inquiry, error) {
	if m.listByProperty != nil {
		return m.listByProperty(ctx, propertyID)
	}
	return nil, errors.New("ListByProperty not implemented")
}

type stubGoogleVerifier struct {
	identity *auth.GoogleIdentity
	err      error
}

func (s *stubGoogleVerifier) Verify(context.Context, string) (*auth.GoogleIdentity, error) {
	return s.identity, s.err
}

// recordingBroker collects published events.
type recordingBroker struct {
	events []session.Event
	err    error
}

func (b *recordingBroker) Publish(_ context.Context, event session.Event) error {
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBroker) Subscribe(uuid.UUID, func(session.Event)) func() {
	return func() {}
}
