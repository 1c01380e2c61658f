package service

import (
	"context"
	"log/slog"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/session"
)

// ProfilesService reads and edits the caller's profile.
type ProfilesService struct {
	profiles repository.ProfilesRepository
	broker   session.Broker
	region   string
	logger   *slog.Logger
}

// NewProfilesService builds a ProfilesService. region is the default phone region.
func NewProfilesService(profiles repository.ProfilesRepository, broker session.Broker, region string, logger *slog.Logger) *ProfilesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfilesService{profiles: profiles, broker: broker, region: normalizeRegion(region), logger: logger}
}

// Get returns the caller's profile.
func (s *ProfilesService) Get(ctx context.Context, caller Caller) (*entity.Profile, error) {
	return s.profiles.FindByID(ctx, caller.ID)
}

// Update replaces the caller's name and phone and notifies open sessions.
func (s *ProfilesService) Update(ctx context.Context, caller Caller, req dto.ProfileRequest) (*entity.Profile, error) {
	fullName, err := requireText("full_name", req.FullName)
	if err != nil {
		return nil, err
	}
	phone, err := normalizeOptionalPhone(req.Phone, s.region)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Update(ctx, caller.ID, fullName, phone)
	if err != nil {
		return nil, err
	}

	event := session.NewEvent(session.EventProfileUpdated, caller.ID, caller.Email, profile.Role)
	if err := s.broker.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish profile event", slog.String("user_id", caller.ID.String()), slog.Any("error", err))
	}
	return profile, nil
}
