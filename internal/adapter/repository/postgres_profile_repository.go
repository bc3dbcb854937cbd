package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, avatar FROM profiles WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Avatar)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to get profile", err)
	}
	return &p, nil
}

func (r *postgresProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (id, name, email, avatar, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar, updated_at = NOW()`,
		p.ID, p.Name, p.Email, p.Avatar,
	)
	if err != nil {
		return errors.Internal("Failed to save profile", err)
	}
	return nil
}
