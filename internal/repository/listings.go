package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusnest/rentals/api/internal/assistant"
	"github.com/campusnest/rentals/api/internal/entity"
)

// ErrListingNotFound is returned when no listing matches the lookup, or when the caller
// does not own the listing being changed.
var ErrListingNotFound = errors.New("listing not found")

// ListingQuery holds the predicates pushed down to Postgres. Nil fields are unconstrained.
type ListingQuery struct {
	MinPrice      *int
	MaxPrice      *int
	Location      *string
	Bedrooms      *int
	Bathrooms     *int
	Furnished     *bool
	MinSquareFeet *int
	PropertyType  *entity.PropertyType
	LeaseDuration *int
	Status        *entity.ListingStatus
	LandlordID    *uuid.UUID
	Search        string
	Limit         int
}

// ListingPatch carries the columns of a partial listing update.
type ListingPatch struct {
	Title          *string
	Description    *string
	Address        *string
	Location       *string
	Price          *int
	Bedrooms       *int
	Bathrooms      *int
	SquareFeet     *int
	Images         *[]string
	Amenities      *[]string
	Highlights     *[]string
	IsFurnished    *bool
	LeaseDuration  **int
	PropertyType   *entity.PropertyType
	Status         *entity.ListingStatus
	Transportation *map[string]string
}

// ListingsRepository describes persistence operations for listings.
type ListingsRepository interface {
	List(ctx context.Context, query ListingQuery) ([]entity.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	Create(ctx context.Context, listing *entity.Listing) (*entity.Listing, error)
	Update(ctx context.Context, id, landlordID uuid.UUID, patch ListingPatch) (*entity.Listing, error)
	Delete(ctx context.Context, id, landlordID uuid.UUID) error
}

// PGXListingsRepository implements ListingsRepository and assistant.ListingsAccessor using pgx.
type PGXListingsRepository struct {
	pool pgxPool
}

// NewPGXListingsRepository wires a pgx backed repository.
func NewPGXListingsRepository(pool *pgxpool.Pool) *PGXListingsRepository {
	return &PGXListingsRepository{pool: pool}
}

var (
	_ ListingsRepository         = (*PGXListingsRepository)(nil)
	_ assistant.ListingsAccessor = (*PGXListingsRepository)(nil)
)

const listingColumns = `
            p.id,
            p.title,
            p.description,
            p.address,
            p.location,
            p.price,
            p.bedrooms,
            p.bathrooms,
            p.square_feet,
            p.images,
            p.amenities,
            p.highlights,
            p.is_furnished,
            p.lease_duration,
            p.property_type,
            p.status,
            p.landlord_id,
            p.landlord_name,
            p.landlord_email,
            p.landlord_phone,
            p.transportation,
            (SELECT COUNT(*) FROM reviews r WHERE r.property_id = p.id) AS reviews_count,
            p.created_at,
            p.updated_at`

// buildListingSelect renders the SELECT for query with positional arguments.
func buildListingSelect(query ListingQuery) (string, []any) {
	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if query.MinPrice != nil {
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", idx))
		args = append(args, *query.MinPrice)
		idx++
	}
	if query.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", idx))
		args = append(args, *query.MaxPrice)
		idx++
	}
	if query.Location != nil {
		clauses = append(clauses, fmt.Sprintf("p.location = $%d", idx))
		args = append(args, *query.Location)
		idx++
	}
	if query.Bedrooms != nil {
		clauses = append(clauses, fmt.Sprintf("p.bedrooms = $%d", idx))
		args = append(args, *query.Bedrooms)
		idx++
	}
	if query.Bathrooms != nil {
		clauses = append(clauses, fmt.Sprintf("p.bathrooms = $%d", idx))
		args = append(args, *query.Bathrooms)
		idx++
	}
	if query.Furnished != nil {
		clauses = append(clauses, fmt.Sprintf("p.is_furnished = $%d", idx))
		args = append(args, *query.Furnished)
		idx++
	}
	if query.MinSquareFeet != nil {
		clauses = append(clauses, fmt.Sprintf("p.square_feet >= $%d", idx))
		args = append(args, *query.MinSquareFeet)
		idx++
	}
	if query.PropertyType != nil {
		clauses = append(clauses, fmt.Sprintf("p.property_type = $%d", idx))
		args = append(args, string(*query.PropertyType))
		idx++
	}
	if query.LeaseDuration != nil {
		clauses = append(clauses, fmt.Sprintf("p.lease_duration = $%d", idx))
		args = append(args, *query.LeaseDuration)
		idx++
	}
	if query.Status != nil {
		clauses = append(clauses, fmt.Sprintf("p.status = $%d", idx))
		args = append(args, string(*query.Status))
		idx++
	}
	if query.LandlordID != nil {
		clauses = append(clauses, fmt.Sprintf("p.landlord_id = $%d", idx))
		args = append(args, *query.LandlordID)
		idx++
	}
	if query.Search != "" {
		pattern := "%" + escapeLike(query.Search) + "%"
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d OR p.address ILIKE $%d)", idx, idx, idx))
		args = append(args, pattern)
		idx++
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT")
	sb.WriteString(listingColumns)
	sb.WriteString("\n        FROM properties p")
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY p.created_at DESC")
	if query.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", idx))
		args = append(args, query.Limit)
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// List returns listings matching query, newest first.
func (r *PGXListingsRepository) List(ctx context.Context, query ListingQuery) ([]entity.Listing, error) {
	sqlText, args := buildListingSelect(query)
	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// FindByID retrieves a single listing.
func (r *PGXListingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	row := r.pool.QueryRow(ctx, "SELECT"+listingColumns+"\n        FROM properties p WHERE p.id = $1", id)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("query listing by id: %w", err)
	}
	return &listing, nil
}

// Create inserts a listing and returns the stored row.
func (r *PGXListingsRepository) Create(ctx context.Context, listing *entity.Listing) (*entity.Listing, error) {
	if listing == nil {
		return nil, fmt.Errorf("listing payload is nil")
	}

	transportation, err := marshalTransportation(listing.Transportation)
	if err != nil {
		return nil, err
	}

	var landlordID any
	if listing.LandlordID != nil {
		landlordID = *listing.LandlordID
	}

	query := `
        WITH p AS (
            INSERT INTO properties (
                title, description, address, location, price, bedrooms, bathrooms, square_feet,
                images, amenities, highlights, is_furnished, lease_duration, property_type, status,
                landlord_id, landlord_name, landlord_email, landlord_phone, transportation
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20::jsonb
            )
            RETURNING *
        )
        SELECT` + listingColumns + `
        FROM p`

	row := r.pool.QueryRow(ctx, query,
		listing.Title,
		listing.Description,
		listing.Address,
		listing.Location,
		listing.Price,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.SquareFeet,
		stringSliceOrEmpty(listing.Images),
		stringSliceOrEmpty(listing.Amenities),
		stringSliceOrEmpty(listing.Highlights),
		listing.IsFurnished,
		intOrNil(listing.LeaseDuration),
		string(listing.PropertyType),
		string(listing.Status),
		landlordID,
		listing.LandlordName,
		listing.LandlordEmail,
		stringOrNil(listing.LandlordPhone),
		transportation,
	)

	created, err := scanListing(row)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	return &created, nil
}

// Update patches a listing owned by landlordID.
func (r *PGXListingsRepository) Update(ctx context.Context, id, landlordID uuid.UUID, patch ListingPatch) (*entity.Listing, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Bedrooms != nil {
		set("bedrooms", *patch.Bedrooms)
	}
	if patch.Bathrooms != nil {
		set("bathrooms", *patch.Bathrooms)
	}
	if patch.SquareFeet != nil {
		set("square_feet", *patch.SquareFeet)
	}
	if patch.Images != nil {
		set("images", stringSliceOrEmpty(*patch.Images))
	}
	if patch.Amenities != nil {
		set("amenities", stringSliceOrEmpty(*patch.Amenities))
	}
	if patch.Highlights != nil {
		set("highlights", stringSliceOrEmpty(*patch.Highlights))
	}
	if patch.IsFurnished != nil {
		set("is_furnished", *patch.IsFurnished)
	}
	if patch.LeaseDuration != nil {
		set("lease_duration", intOrNil(*patch.LeaseDuration))
	}
	if patch.PropertyType != nil {
		set("property_type", string(*patch.PropertyType))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Transportation != nil {
		transportation, err := marshalTransportation(*patch.Transportation)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, fmt.Sprintf("transportation = $%d::jsonb", idx))
		args = append(args, transportation)
		idx++
	}

	if len(setClauses) == 0 {
		listing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !listing.OwnedBy(landlordID) {
			return nil, ErrListingNotFound
		}
		return listing, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id, landlordID)

	query := fmt.Sprintf(`
        WITH p AS (
            UPDATE properties SET %s
            WHERE id = $%d AND landlord_id = $%d
            RETURNING *
        )
        SELECT`+listingColumns+`
        FROM p`, strings.Join(setClauses, ", "), idx, idx+1)

	updated, err := scanListing(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return &updated, nil
}

// Delete removes a listing owned by landlordID.
func (r *PGXListingsRepository) Delete(ctx context.Context, id, landlordID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1 AND landlord_id = $2`, id, landlordID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrListingNotFound
	}
	return nil
}

// InPriceRange returns up to limit listings priced within [minPrice, maxPrice], cheapest first.
func (r *PGXListingsRepository) InPriceRange(ctx context.Context, minPrice, maxPrice, limit int) ([]entity.Listing, error) {
	query := "SELECT" + listingColumns + `
        FROM properties p
        WHERE p.price >= $1 AND p.price <= $2
        ORDER BY p.price ASC, p.created_at DESC
        LIMIT $3`

	rows, err := r.pool.Query(ctx, query, minPrice, maxPrice, limit)
	if err != nil {
		return nil, fmt.Errorf("listings in price range: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// PriceSpan returns the cheapest and most expensive price.
func (r *PGXListingsRepository) PriceSpan(ctx context.Context) (int, int, bool, error) {
	var lowest, highest sql.NullInt64
	if err := r.pool.QueryRow(ctx, `SELECT MIN(price), MAX(price) FROM properties`).Scan(&lowest, &highest); err != nil {
		return 0, 0, false, fmt.Errorf("price span: %w", err)
	}
	if !lowest.Valid || !highest.Valid {
		return 0, 0, false, nil
	}
	return int(lowest.Int64), int(highest.Int64), true, nil
}

// Addresses returns up to limit distinct addresses, most recently listed first.
func (r *PGXListingsRepository) Addresses(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT address FROM properties
        GROUP BY address
        ORDER BY MAX(created_at) DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return addresses, nil
}

// BedroomCounts returns the distinct bedroom counts in ascending order.
func (r *PGXListingsRepository) BedroomCounts(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT bedrooms FROM properties ORDER BY bedrooms`)
	if err != nil {
		return nil, fmt.Errorf("list bedroom counts: %w", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan bedroom count: %w", err)
		}
		counts = append(counts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bedroom counts: %w", err)
	}
	return counts, nil
}

// AmenitySets returns the amenity arrays of the limit newest listings.
func (r *PGXListingsRepository) AmenitySets(ctx context.Context, limit int) ([][]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT amenities FROM properties ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	defer rows.Close()

	var sets [][]string
	for rows.Next() {
		var amenities []string
		if err := rows.Scan(&amenities); err != nil {
			return nil, fmt.Errorf("scan amenities: %w", err)
		}
		sets = append(sets, amenities)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate amenities: %w", err)
	}
	return sets, nil
}

func marshalTransportation(values map[string]string) (string, error) {
	if values == nil {
		values = map[string]string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal transportation: %w", err)
	}
	return string(raw), nil
}

func scanListings(rows pgx.Rows) ([]entity.Listing, error) {
	listings := make([]entity.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func scanListing(row rowScanner) (entity.Listing, error) {
	var (
		l              entity.Listing
		leaseDuration  sql.NullInt64
		propertyType   string
		status         string
		landlordID     uuid.NullUUID
		landlordPhone  sql.NullString
		transportation []byte
	)

	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.Location,
		&l.Price,
		&l.Bedrooms,
		&l.Bathrooms,
		&l.SquareFeet,
		&l.Images,
		&l.Amenities,
		&l.Highlights,
		&l.IsFurnished,
		&leaseDuration,
		&propertyType,
		&status,
		&landlordID,
		&l.LandlordName,
		&l.LandlordEmail,
		&landlordPhone,
		&transportation,
		&l.ReviewsCount,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return entity.Listing{}, err
	}

	l.LeaseDuration = nullIntToPtr(leaseDuration)
	l.PropertyType = entity.PropertyType(propertyType)
	l.Status = entity.ListingStatus(status)
	if landlordID.Valid {
		id := landlordID.UUID
		l.LandlordID = &id
	}
	l.LandlordPhone = nullStringToPtr(landlordPhone)
	if len(transportation) > 0 {
		if err := json.Unmarshal(transportation, &l.Transportation); err != nil {
			return entity.Listing{}, fmt.Errorf("unmarshal transportation: %w", err)
		}
	}
	return l, nil
}
