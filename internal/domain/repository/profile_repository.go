package repository

import (
	"context"

	"locallink/internal/domain/entity"
)

type ProfileRepository interface {
	// GetByID returns a NOT_FOUND AppError when the user has no profile row.
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}
