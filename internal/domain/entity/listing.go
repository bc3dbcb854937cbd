package entity

import (
	"time"
)

const (
	ListingTypeSell = "sell"
	ListingTypeBuy  = "buy"
)

// Categories offered by the marketplace, in display order.
var Categories = []string{
	"Gadgets", "Clothes", "Art", "Vehicles",
	"Furniture", "Books", "Accessories", "Others",
}

type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	Type        string    `json:"type,omitempty"`
	BudgetRange *string   `json:"budget_range,omitempty"`

	// Seller is joined in by feed queries; absent for "my posts".
	Seller *Profile `json:"seller,omitempty"`
}

// CoverImage is the first image, or "" when the listing has none.
func (l *Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
