package entity

import "time"

// ImageMessagePreview replaces the summary text when a message carries an image.
const ImageMessagePreview = "Sent an image"

type ChatMessage struct {
	ID                string    `json:"id" firestore:"id"`
	SenderID          string    `json:"sender_id" firestore:"senderId"`
	Text              string    `json:"text" firestore:"text"`
	Timestamp         time.Time `json:"timestamp" firestore:"timestamp"`
	Seen              bool      `json:"seen" firestore:"seen"`
	AttachedItemID    *string   `json:"attached_item_id,omitempty" firestore:"attachedItemId,omitempty"`
	AttachedItemTitle *string   `json:"attached_item_title,omitempty" firestore:"attachedItemTitle,omitempty"`
	AttachedItemPrice *string   `json:"attached_item_price,omitempty" firestore:"attachedItemPrice,omitempty"`
	AttachedItemImage *string   `json:"attached_item_image,omitempty" firestore:"attachedItemImage,omitempty"`
	ImageURL          *string   `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
}

// Preview is the text shown in the chat summary for this message.
func (m *ChatMessage) Preview() string {
	if m.ImageURL != nil {
		return ImageMessagePreview
	}
	return m.Text
}
