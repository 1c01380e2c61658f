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

// ErrReviewNotFound is returned when the review is missing or belongs to someone else.
var ErrReviewNotFound = errors.New("review not found")

// ReviewsRepository persists listing reviews.
type ReviewsRepository interface {
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error)
	Create(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error)
	Update(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*entity.Review, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// PGXReviewsRepository implements ReviewsRepository with pgx.
type PGXReviewsRepository struct {
	pool pgxPool
}

// NewPGXReviewsRepository instantiates a reviews repository.
func NewPGXReviewsRepository(pool *pgxpool.Pool) *PGXReviewsRepository {
	return &PGXReviewsRepository{pool: pool}
}

const reviewSelect = `
        SELECT rv.id, rv.property_id, rv.user_id, rv.rating, rv.comment,
               COALESCE(pr.full_name, ''), rv.created_at, rv.updated_at`

// ListByProperty returns the reviews of a listing, newest first.
func (r *PGXReviewsRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, reviewSelect+`
        FROM reviews rv
        LEFT JOIN profiles pr ON pr.id = rv.user_id
        WHERE rv.property_id = $1
        ORDER BY rv.created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]entity.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// Create stores a review. A missing listing yields ErrListingNotFound.
func (r *PGXReviewsRepository) Create(ctx context.Context, propertyID, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	row := r.pool.QueryRow(ctx, `
        WITH rv AS (
            INSERT INTO reviews (property_id, user_id, rating, comment)
            VALUES ($1, $2, $3, $4)
            RETURNING *
        )`+reviewSelect+`
        FROM rv
        LEFT JOIN profiles pr ON pr.id = rv.user_id`, propertyID, userID, rating, comment)

	review, err := scanReview(row)
	if err != nil {
		if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// Update edits a review written by userID.
func (r *PGXReviewsRepository) Update(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*entity.Review, error) {
	row := r.pool.QueryRow(ctx, `
        WITH rv AS (
            UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW()
            WHERE id = $3 AND user_id = $4
            RETURNING *
        )`+reviewSelect+`
        FROM rv
        LEFT JOIN profiles pr ON pr.id = rv.user_id`, rating, comment, id, userID)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

// Delete removes a review written by userID.
func (r *PGXReviewsRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.PropertyID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.ReviewerName,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
