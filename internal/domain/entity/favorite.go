package entity

// FavoriteItem is a denormalized snapshot of a Listing taken when the
// favorites slice was fetched. It can drift from the live listing.
type FavoriteItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
	SellerName  string   `json:"seller_name"`
	SellerImage string   `json:"seller_image"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	OwnerID     string   `json:"owner_id"`
	Type        string   `json:"type,omitempty"`
	BudgetRange *string  `json:"budget_range,omitempty"`
}

// NewFavoriteItem snapshots a listing. Missing seller info falls back to
// "Unknown" with no avatar.
func NewFavoriteItem(l *Listing) FavoriteItem {
	item := FavoriteItem{
		ID:          l.ID,
		Title:       l.Title,
		Price:       l.Price,
		ImageURL:    l.CoverImage(),
		Images:      l.Images,
		Description: l.Description,
		SellerName:  "Unknown",
		Category:    l.Category,
		Condition:   l.Condition,
		OwnerID:     l.OwnerID,
		Type:        l.Type,
		BudgetRange: l.BudgetRange,
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	if l.Seller != nil {
		item.SellerName = l.Seller.Name
		item.SellerImage = l.Seller.Avatar
	}
	return item
}
