package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

type postgresListingRepository struct {
	db *sql.DB
}

func NewPostgresListingRepository(db *sql.DB) repository.ListingRepository {
	return &postgresListingRepository{db: db}
}

func (r *postgresListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO listings (id, title, description, price, category, condition, images, owner_id, type, budget_range, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.Title, l.Description, l.Price, l.Category, l.Condition, pq.Array(l.Images),
		l.OwnerID, l.Type, nullString(l.BudgetRange), l.CreatedAt,
	)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *postgresListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+listingColumns+listingFrom+"\nWHERE l.id = $1", id)
	l, err := scanListing(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}
	return &l, nil
}

// List returns the newest listings first. Query matches titles
// case-insensitively.
func (r *postgresListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]entity.Listing, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("l.type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("l.category = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, likePattern(filter.Query))
		where = append(where, fmt.Sprintf("l.title ILIKE $%d", len(args)))
	}

	q := "SELECT" + listingColumns + listingFrom
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY l.created_at DESC"

	return r.query(ctx, q, args...)
}

func (r *postgresListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Listing, error) {
	return r.query(ctx, "SELECT"+listingColumns+listingFrom+"\nWHERE l.owner_id = $1\nORDER BY l.created_at DESC", ownerID)
}

func (r *postgresListingRepository) query(ctx context.Context, q string, args ...interface{}) ([]entity.Listing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Internal("Failed to list listings", err)
	}
	defer rows.Close()

	listings := []entity.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, errors.Internal("Failed to parse listing", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to list listings", err)
	}
	return listings, nil
}

func (r *postgresListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE listings
SET title = $2, description = $3, price = $4, category = $5, condition = $6,
    images = $7, type = $8, budget_range = $9
WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Price, l.Category, l.Condition,
		pq.Array(l.Images), l.Type, nullString(l.BudgetRange),
	)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}
	return expectOneRow(res, "Listing")
}

func (r *postgresListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}
	return expectOneRow(res, "Listing")
}

func expectOneRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Internal("Failed to read affected rows", err)
	}
	if n == 0 {
		return errors.NotFound(resource, nil)
	}
	return nil
}
