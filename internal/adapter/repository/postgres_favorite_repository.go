package repository

import (
	"context"
	"database/sql"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

type postgresFavoriteRepository struct {
	db *sql.DB
}

func NewPostgresFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &postgresFavoriteRepository{db: db}
}

func (r *postgresFavoriteRepository) Add(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, listing_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, listingID,
	)
	if err != nil {
		return errors.Internal("Failed to add favorite", err)
	}
	return nil
}

func (r *postgresFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2",
		userID, listingID,
	)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}
	return nil
}

// ListByUser snapshots every favorited listing with its seller, most
// recently favorited first.
func (r *postgresFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.FavoriteItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT`+listingColumns+`
FROM favorites f
JOIN listings l ON l.id = f.listing_id
LEFT JOIN profiles p ON p.id = l.owner_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, errors.Internal("Failed to list favorites", err)
	}
	defer rows.Close()

	items := []entity.FavoriteItem{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, errors.Internal("Failed to parse favorite", err)
		}
		items = append(items, entity.NewFavoriteItem(&l))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to list favorites", err)
	}
	return items, nil
}
