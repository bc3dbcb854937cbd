package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"locallink/internal/cache"
	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/internal/infrastructure/ratelimit"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	sessions    *SessionManager
	throttle    Throttle
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	sessions *SessionManager,
	throttle Throttle,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		sessions:    sessions,
		throttle:    throttle,
	}
}

// FeedQuery selects a home feed. Only the zero query (all "sell" listings)
// is cached; filtered feeds always go to the network.
type FeedQuery struct {
	Type     string
	Query    string
	Category string
}

func (q FeedQuery) cacheable() bool {
	return (q.Type == "" || q.Type == entity.ListingTypeSell) &&
		strings.TrimSpace(q.Query) == "" && q.Category == ""
}

type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   string
	Images      []string
	Type        string
	BudgetRange *string
}

func (uc *ListingUseCase) homeView(s *Session) *SliceView[[]entity.Listing] {
	return viewFor(s, cache.SliceHomeListings, func() sliceBinding[[]entity.Listing] {
		return sliceBinding[[]entity.Listing]{
			load: s.Cache().LoadHomeListings,
			save: s.Cache().SaveHomeListings,
			fetch: func(ctx context.Context) ([]entity.Listing, error) {
				return uc.fetchFeed(ctx, repository.ListingFilter{Type: entity.ListingTypeSell})
			},
			empty: isEmptySlice[entity.Listing],
		}
	})
}

func (uc *ListingUseCase) mineView(s *Session) *SliceView[[]entity.Listing] {
	return viewFor(s, cache.SliceMyListings, func() sliceBinding[[]entity.Listing] {
		return sliceBinding[[]entity.Listing]{
			load: s.Cache().LoadMyListings,
			save: s.Cache().SaveMyListings,
			fetch: func(ctx context.Context) ([]entity.Listing, error) {
				listings, err := uc.listingRepo.ListByOwner(ctx, s.UserID)
				if err != nil {
					return nil, errors.Unavailable("Failed to fetch your listings", err)
				}
				return nonNil(listings), nil
			},
			empty: isEmptySlice[entity.Listing],
		}
	})
}

func (uc *ListingUseCase) fetchFeed(ctx context.Context, filter repository.ListingFilter) ([]entity.Listing, error) {
	listings, err := uc.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Unavailable("Failed to fetch listings", err)
	}
	return nonNil(listings), nil
}

// Home mounts the home feed. Filtered queries bypass the cache and return
// network results directly.
func (uc *ListingUseCase) Home(ctx context.Context, userID string, q FeedQuery, wait bool) (Snapshot[[]entity.Listing], error) {
	if !q.cacheable() {
		if q.Category != "" && !entity.IsValidCategory(q.Category) {
			return Snapshot[[]entity.Listing]{}, errors.BadRequest("Unknown category", nil)
		}
		listingType := q.Type
		if listingType == "" {
			listingType = entity.ListingTypeSell
		}
		listings, err := uc.fetchFeed(ctx, repository.ListingFilter{
			Type:     listingType,
			Query:    strings.TrimSpace(q.Query),
			Category: q.Category,
		})
		if err != nil {
			return Snapshot[[]entity.Listing]{}, err
		}
		return Snapshot[[]entity.Listing]{
			Data:      listings,
			Source:    SourceNetwork,
			UpdatedAt: time.Now(),
		}, nil
	}

	return mountView(ctx, uc.homeView(uc.sessions.Get(userID)), wait)
}

// RefreshHome is pull-to-refresh on the home feed.
func (uc *ListingUseCase) RefreshHome(ctx context.Context, userID string) (Snapshot[[]entity.Listing], error) {
	if allowed, wait := uc.throttle.Allow(userID, ratelimit.ActionRefresh); !allowed {
		return Snapshot[[]entity.Listing]{}, errors.TooManyRequests("Refreshing too often, please wait", wait)
	}

	v := uc.homeView(uc.sessions.Get(userID))
	if err := v.Refresh(ctx); err != nil {
		return v.Snapshot(ctx), err
	}
	return v.Snapshot(ctx), nil
}

// Mine mounts the user's own listings.
func (uc *ListingUseCase) Mine(ctx context.Context, userID string, wait bool) (Snapshot[[]entity.Listing], error) {
	return mountView(ctx, uc.mineView(uc.sessions.Get(userID)), wait)
}

func (uc *ListingUseCase) Get(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) Create(ctx context.Context, ownerID string, input ListingInput) (*entity.Listing, error) {
	listing := &entity.Listing{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := applyListingInput(listing, input); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		logger.Error("Failed to create listing for %s: %v", ownerID, err)
		return nil, errors.Internal("Failed to create listing", err)
	}

	uc.signalListings(ownerID)
	return listing, nil
}

func (uc *ListingUseCase) Update(ctx context.Context, userID, id string, input ListingInput) (*entity.Listing, error) {
	listing, err := uc.ownedListing(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyListingInput(listing, input); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, errors.Internal("Failed to update listing", err)
	}

	uc.signalListings(userID)
	return listing, nil
}

// Delete removes the listing, drops it from the displayed "my posts" state
// and asks both listing slices to refetch on their next mount.
func (uc *ListingUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.ownedListing(ctx, userID, id); err != nil {
		return err
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	s := uc.sessions.Get(userID)
	uc.mineView(s).Update(ctx, func(current []entity.Listing) []entity.Listing {
		return removeListing(current, id)
	})
	uc.signalListings(userID)
	return nil
}

func (uc *ListingUseCase) ownedListing(ctx context.Context, userID, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, errors.Forbidden("You can only modify your own listings", nil)
	}
	return listing, nil
}

func (uc *ListingUseCase) signalListings(userID string) {
	s := uc.sessions.Get(userID)
	uc.homeView(s).Signal()
	uc.mineView(s).Signal()
}

func applyListingInput(listing *entity.Listing, input ListingInput) error {
	if !entity.IsValidCategory(input.Category) {
		return errors.BadRequest("Unknown category", nil)
	}

	listingType := input.Type
	if listingType == "" {
		listingType = entity.ListingTypeSell
	}

	listing.Title = strings.TrimSpace(input.Title)
	listing.Description = input.Description
	listing.Category = input.Category
	listing.Condition = input.Condition
	listing.Images = input.Images
	listing.Type = listingType

	switch listingType {
	case entity.ListingTypeSell:
		listing.Price = input.Price
		listing.BudgetRange = nil
	case entity.ListingTypeBuy:
		listing.Price = 0
		listing.BudgetRange = input.BudgetRange
	default:
		return errors.BadRequest("Listing type must be sell or buy", nil)
	}
	return nil
}

func removeListing(listings []entity.Listing, id string) []entity.Listing {
	kept := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return kept
}

func nonNil[E any](v []E) []E {
	if v == nil {
		return []E{}
	}
	return v
}
