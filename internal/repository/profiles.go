package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusnest/rentals/api/internal/entity"
)

// ErrProfileNotFound is returned when the user has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// ProfilesRepository reads and updates user profiles.
type ProfilesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error)
}

// PGXProfilesRepository implements ProfilesRepository with pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository instantiates a profiles repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

const profileColumns = `id, role, full_name, phone, created_at, updated_at`

// FindByID returns the profile of a user.
func (r *PGXProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return profile, nil
}

// Update replaces the editable profile fields. A nil phone clears it.
func (r *PGXProfilesRepository) Update(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE profiles SET full_name = $1, phone = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING `+profileColumns, fullName, stringOrNil(phone), id)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var (
		profile entity.Profile
		phone   sql.NullString
	)
	if err := row.Scan(&profile.ID, &profile.Role, &profile.FullName, &phone, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return nil, err
	}
	profile.Phone = nullStringToPtr(phone)
	return &profile, nil
}
