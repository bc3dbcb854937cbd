package usecase

import (
	"context"
	"strings"

	"locallink/internal/cache"
	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	overlay     *cache.ProfileOverlay
	sessions    *SessionManager
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	overlay *cache.ProfileOverlay,
	sessions *SessionManager,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		overlay:     overlay,
		sessions:    sessions,
	}
}

type ProfileInput struct {
	Name   string
	Email  string
	Avatar string
}

func (uc *ProfileUseCase) view(s *Session) *SliceView[*entity.Profile] {
	return viewFor(s, cache.SliceProfile, func() sliceBinding[*entity.Profile] {
		return sliceBinding[*entity.Profile]{
			load: s.Cache().LoadProfile,
			save: s.Cache().SaveProfile,
			fetch: func(ctx context.Context) (*entity.Profile, error) {
				p, err := uc.profileRepo.GetByID(ctx, s.UserID)
				if err != nil {
					return nil, err
				}
				uc.overlay.Put(s.UserID, *p)
				return p, nil
			},
			empty: func(p *entity.Profile) bool { return p == nil },
		}
	})
}

// Mine mounts the signed-in user's profile.
func (uc *ProfileUseCase) Mine(ctx context.Context, userID string, wait bool) (Snapshot[*entity.Profile], error) {
	return mountView(ctx, uc.view(uc.sessions.Get(userID)), wait)
}

// Save upserts the user's profile and writes it through to the profile
// slice and the overlay.
func (uc *ProfileUseCase) Save(ctx context.Context, userID string, input ProfileInput) (*entity.Profile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.BadRequest("Name is required", nil)
	}

	p := &entity.Profile{
		ID:     userID,
		Name:   name,
		Email:  strings.TrimSpace(input.Email),
		Avatar: input.Avatar,
	}
	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, errors.Internal("Failed to save profile", err)
	}

	uc.view(uc.sessions.Get(userID)).Set(ctx, p)
	uc.overlay.Put(userID, *p)
	return p, nil
}

// Get reads another user's profile through the overlay. Overlay hits never
// touch the network.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	if p, ok := uc.overlay.Get(userID); ok {
		return &p, nil
	}

	p, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	uc.overlay.Put(userID, *p)
	return p, nil
}

// Prefetch fills the overlay for users it does not know yet. Failures are
// ignored; callers fall back to Get.
func (uc *ProfileUseCase) Prefetch(ctx context.Context, userIDs []string) {
	for _, id := range userIDs {
		if id == "" || uc.overlay.Contains(id) {
			continue
		}
		if p, err := uc.profileRepo.GetByID(ctx, id); err == nil {
			uc.overlay.Put(id, *p)
		}
	}
}
