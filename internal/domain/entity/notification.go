package entity

import "time"

const (
	NotificationTypeMessage   = "message"
	NotificationTypeAlert     = "alert"
	NotificationTypePromotion = "promotion"
)

type Notification struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	SenderID      *string   `json:"sender_id,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	RelatedItemID *string   `json:"related_item_id,omitempty"`
}
