package repository

import (
	"context"

	"locallink/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID string, id int64) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}
