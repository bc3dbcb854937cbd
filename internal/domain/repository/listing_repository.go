package repository

import (
	"context"

	"locallink/internal/domain/entity"
)

// ListingFilter narrows a feed query. Empty fields do not filter.
type ListingFilter struct {
	Type     string
	Query    string
	Category string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]entity.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
}
