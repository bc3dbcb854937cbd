package usecase

import (
	"context"

	"locallink/internal/cache"
	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo  repository.FavoriteRepository
	listingRepo   repository.ListingRepository
	notifications *NotificationUseCase
	sessions      *SessionManager
}

func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	listingRepo repository.ListingRepository,
	notifications *NotificationUseCase,
	sessions *SessionManager,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo:  favoriteRepo,
		listingRepo:   listingRepo,
		notifications: notifications,
		sessions:      sessions,
	}
}

// ToggleResult is the membership shown after a toggle.
type ToggleResult struct {
	ListingID  string `json:"listing_id"`
	IsFavorite bool   `json:"is_favorite"`
}

func (uc *FavoriteUseCase) view(s *Session) *SliceView[[]entity.FavoriteItem] {
	return viewFor(s, cache.SliceFavorites, func() sliceBinding[[]entity.FavoriteItem] {
		return sliceBinding[[]entity.FavoriteItem]{
			load: s.Cache().LoadFavorites,
			save: s.Cache().SaveFavorites,
			fetch: func(ctx context.Context) ([]entity.FavoriteItem, error) {
				items, err := uc.favoriteRepo.ListByUser(ctx, s.UserID)
				if err != nil {
					return nil, errors.Unavailable("Failed to fetch favorites", err)
				}
				return nonNil(items), nil
			},
			empty: isEmptySlice[entity.FavoriteItem],
		}
	})
}

// List mounts the favorites slice.
func (uc *FavoriteUseCase) List(ctx context.Context, userID string, wait bool) (Snapshot[[]entity.FavoriteItem], error) {
	return mountView(ctx, uc.view(uc.sessions.Get(userID)), wait)
}

// IsFavorite is derived from the displayed favorites, not asked of the
// network.
func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, listingID string) bool {
	items := uc.view(uc.sessions.Get(userID)).State(ctx)
	return containsFavorite(items, listingID)
}

// Toggle flips membership optimistically: the displayed list changes before
// the network call and stays changed if that call fails. The persisted
// slice is only replaced by the next successful fetch.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, userID, listingID string) (ToggleResult, error) {
	v := uc.view(uc.sessions.Get(userID))
	wasFavorite := containsFavorite(v.State(ctx), listingID)
	result := ToggleResult{ListingID: listingID, IsFavorite: !wasFavorite}

	if wasFavorite {
		v.Mutate(ctx, func(items []entity.FavoriteItem) []entity.FavoriteItem {
			return removeFavorite(items, listingID)
		})
		if err := uc.favoriteRepo.Remove(ctx, userID, listingID); err != nil {
			logger.Warn("Favorite remove failed, keeping optimistic state: user=%s listing=%s: %v", userID, listingID, err)
			return result, errors.Unavailable("Failed to remove favorite", err)
		}
		return result, nil
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return ToggleResult{ListingID: listingID, IsFavorite: false}, err
	}

	v.Mutate(ctx, func(items []entity.FavoriteItem) []entity.FavoriteItem {
		next := make([]entity.FavoriteItem, 0, len(items)+1)
		next = append(next, items...)
		return append(next, entity.NewFavoriteItem(listing))
	})
	if err := uc.favoriteRepo.Add(ctx, userID, listingID); err != nil {
		logger.Warn("Favorite add failed, keeping optimistic state: user=%s listing=%s: %v", userID, listingID, err)
		return result, errors.Unavailable("Failed to add favorite", err)
	}

	if listing.OwnerID != "" && listing.OwnerID != userID {
		uc.notifyOwner(ctx, userID, listing)
	}
	return result, nil
}

func (uc *FavoriteUseCase) notifyOwner(ctx context.Context, likerID string, listing *entity.Listing) {
	sender := likerID
	related := listing.ID
	err := uc.notifications.Create(ctx, &entity.Notification{
		UserID:        listing.OwnerID,
		SenderID:      &sender,
		Title:         "New Like",
		Message:       "Someone liked your item: " + listing.Title,
		Type:          entity.NotificationTypeAlert,
		RelatedItemID: &related,
	})
	if err != nil {
		logger.Warn("Failed to notify %s about like on %s: %v", listing.OwnerID, listing.ID, err)
	}
}

func containsFavorite(items []entity.FavoriteItem, listingID string) bool {
	for _, item := range items {
		if item.ID == listingID {
			return true
		}
	}
	return false
}

func removeFavorite(items []entity.FavoriteItem, listingID string) []entity.FavoriteItem {
	kept := make([]entity.FavoriteItem, 0, len(items))
	for _, item := range items {
		if item.ID != listingID {
			kept = append(kept, item)
		}
	}
	return kept
}
