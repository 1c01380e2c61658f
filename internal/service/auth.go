package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/session"
)

const minPasswordLength = 6

// Caller identifies the authenticated user behind a request.
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// GoogleTokenVerifier validates Google ID tokens.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.GoogleIdentity, error)
}

// AuthService coordinates credential validation, token issuance and session events.
type AuthService struct {
	users    repository.UsersRepository
	profiles repository.ProfilesRepository
	jwt      *auth.JWTManager
	broker   session.Broker
	google   GoogleTokenVerifier
	region   string
	logger   *slog.Logger
}

// AuthOption configures optional dependencies of the AuthService.
type AuthOption func(*AuthService)

// WithGoogleVerifier enables Google sign-in.
func WithGoogleVerifier(verifier GoogleTokenVerifier) AuthOption {
	return func(s *AuthService) {
		s.google = verifier
	}
}

// WithPhoneRegion sets the region used to parse national phone numbers.
func WithPhoneRegion(region string) AuthOption {
	return func(s *AuthService) {
		s.region = normalizeRegion(region)
	}
}

// WithAuthLogger overrides the logger used for non fatal failures.
func WithAuthLogger(logger *slog.Logger) AuthOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, profiles repository.ProfilesRepository, jwtManager *auth.JWTManager, broker session.Broker, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		profiles: profiles,
		jwt:      jwtManager,
		broker:   broker,
		region:   defaultPhoneRegion,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with its profile and signs the user in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}
	fullName, err := requireText("full_name", req.FullName)
	if err != nil {
		return nil, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case "":
		role = entity.RoleTenant
	case entity.RoleTenant, entity.RoleLandlord:
	default:
		return nil, invalidf("role must be tenant or landlord")
	}

	phone, err := normalizeOptionalPhone(req.Phone, s.region)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, profile, err := s.users.CreateWithProfile(ctx, repository.NewAccount{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		FullName:     fullName,
		Phone:        phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.signIn(ctx, user, profile)
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalidf("email and password must not be empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, user, s.lookupProfile(ctx, user.ID))
}

// Google signs a user in with a Google ID token, creating a tenant account on first use.
func (s *AuthService) Google(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	if s.google == nil {
		return nil, auth.ErrGoogleDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, invalidf("id_token is required")
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleDisabled) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "google token rejected", slog.Any("error", err))
		return nil, ErrInvalidCredentials
	}
	if !identity.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return s.signIn(ctx, user, s.lookupProfile(ctx, user.ID))
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	// Google accounts never log in with a password; store an unusable random hash.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}
	fullName := strings.TrimSpace(identity.Name)
	if fullName == "" {
		fullName = identity.Email
	}

	user, profile, err := s.users.CreateWithProfile(ctx, repository.NewAccount{
		Email:        identity.Email,
		PasswordHash: string(hashed),
		Role:         entity.RoleTenant,
		FullName:     fullName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return s.signIn(ctx, user, profile)
}

// Logout announces the end of the caller's session. Tokens are stateless, so nothing
// is revoked server side.
func (s *AuthService) Logout(ctx context.Context, caller Caller) error {
	return s.broker.Publish(ctx, session.NewEvent(session.EventSignedOut, caller.ID, caller.Email, caller.Role))
}

// Session returns the signed-in user with profile details.
func (s *AuthService) Session(ctx context.Context, caller Caller) (*dto.SessionUser, error) {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return sessionUser(user, s.lookupProfile(ctx, user.ID)), nil
}

func (s *AuthService) signIn(ctx context.Context, user *entity.User, profile *entity.Profile) (*dto.LoginResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	event := session.NewEvent(session.EventSignedIn, user.ID, user.Email, user.Role)
	if err := s.broker.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish sign in event", slog.String("user_id", user.ID.String()), slog.Any("error", err))
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		User:        *sessionUser(user, profile),
	}, nil
}

// lookupProfile returns nil when the profile cannot be loaded; signing in does not
// depend on it.
func (s *AuthService) lookupProfile(ctx context.Context, userID uuid.UUID) *entity.Profile {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			s.logger.WarnContext(ctx, "load profile", slog.String("user_id", userID.String()), slog.Any("error", err))
		}
		return nil
	}
	return profile
}

func sessionUser(user *entity.User, profile *entity.Profile) *dto.SessionUser {
	out := &dto.SessionUser{ID: user.ID.String(), Email: user.Email, Role: user.Role}
	if profile != nil {
		out.FullName = profile.FullName
		out.Phone = profile.Phone
	}
	return out
}
