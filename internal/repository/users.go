package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusnest/rentals/api/internal/entity"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailDuplicate = errors.New("email already exists")
)

// NewAccount is the data needed to open an account and its profile.
type NewAccount struct {
	Email        string
	PasswordHash string
	Role         string
	FullName     string
	Phone        *string
}

// UsersRepository declares operations on accounts.
type UsersRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	CreateWithProfile(ctx context.Context, account NewAccount) (*entity.User, *entity.Profile, error)
}

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	pool pgxPool
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(pool *pgxpool.Pool) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

// FindByEmail fetches a user by email if present.
func (r *PGXUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by identifier.
func (r *PGXUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// CreateWithProfile inserts the user and its profile in one transaction.
func (r *PGXUsersRepository) CreateWithProfile(ctx context.Context, account NewAccount) (*entity.User, *entity.Profile, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("start create account tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
        INSERT INTO users (email, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING `+userColumns, account.Email, account.PasswordHash, account.Role)

	user, err := scanUser(row)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == codeUniqueViolation && constraint == "users_email_key" {
			return nil, nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, err)
		}
		return nil, nil, fmt.Errorf("insert user: %w", err)
	}

	row = tx.QueryRow(ctx, `
        INSERT INTO profiles (id, role, full_name, phone)
        VALUES ($1, $2, $3, $4)
        RETURNING `+profileColumns, user.ID, account.Role, account.FullName, stringOrNil(account.Phone))

	profile, err := scanProfile(row)
	if err != nil {
		return nil, nil, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit create account tx: %w", err)
	}
	return user, profile, nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}
