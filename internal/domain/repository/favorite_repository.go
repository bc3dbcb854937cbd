package repository

import (
	"context"

	"locallink/internal/domain/entity"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, listingID string) error
	Remove(ctx context.Context, userID, listingID string) error
	ListByUser(ctx context.Context, userID string) ([]entity.FavoriteItem, error)
}
