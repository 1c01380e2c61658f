package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusnest/rentals/api/internal/entity"
)

// InquiriesRepository stores contact requests sent to landlords.
type InquiriesRepository interface {
	Create(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Inquiry, error)
}

// PGXInquiriesRepository implements InquiriesRepository with pgx.
type PGXInquiriesRepository struct {
	pool pgxPool
}

// NewPGXInquiriesRepository instantiates an inquiries repository.
func NewPGXInquiriesRepository(pool *pgxpool.Pool) *PGXInquiriesRepository {
	return &PGXInquiriesRepository{pool: pool}
}

const inquiryColumns = `id, property_id, name, email, phone, message, created_at`

// Create stores an inquiry. A missing listing yields ErrListingNotFound.
func (r *PGXInquiriesRepository) Create(ctx context.Context, inquiry *entity.Inquiry) (*entity.Inquiry, error) {
	if inquiry == nil {
		return nil, fmt.Errorf("inquiry payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO contact_inquiries (property_id, name, email, phone, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+inquiryColumns,
		inquiry.PropertyID, inquiry.Name, inquiry.Email, stringOrNil(inquiry.Phone), inquiry.Message)

	created, err := scanInquiry(row)
	if err != nil {
		if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("insert inquiry: %w", err)
	}
	return created, nil
}

// ListByProperty returns the inquiries of a listing, newest first.
func (r *PGXInquiriesRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Inquiry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+inquiryColumns+` FROM contact_inquiries WHERE property_id = $1 ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]entity.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, *inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return inquiries, nil
}

func scanInquiry(row rowScanner) (*entity.Inquiry, error) {
	var (
		inquiry entity.Inquiry
		phone   sql.NullString
	)
	err := row.Scan(&inquiry.ID, &inquiry.PropertyID, &inquiry.Name, &inquiry.Email, &phone, &inquiry.Message, &inquiry.CreatedAt)
	if err != nil {
		return nil, err
	}
	inquiry.Phone = nullStringToPtr(phone)
	return &inquiry, nil
}
