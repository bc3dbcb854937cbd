package usecase

import (
	"context"
	"time"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	ws "locallink/internal/infrastructure/websocket"
	"locallink/pkg/errors"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	pusher           EventPusher
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, pusher EventPusher) *NotificationUseCase {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

// List returns a page of the user's notifications, newest first, and the
// total count.
func (uc *NotificationUseCase) List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	items, total, err := uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.Unavailable("Failed to fetch notifications", err)
	}
	return nonNil(items), total, nil
}

// Create stores a notification and pushes it to the recipient if online.
func (uc *NotificationUseCase) Create(ctx context.Context, n *entity.Notification) error {
	if n.UserID == "" {
		return errors.BadRequest("Notification recipient is required", nil)
	}
	if n.Type == "" {
		n.Type = entity.NotificationTypeAlert
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	uc.pusher.SendEvent(n.UserID, ws.Event{
		Type: ws.EventNotification,
		Data: n,
	})
	return nil
}

func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, userID string, id int64) error {
	return uc.notificationRepo.MarkAsRead(ctx, userID, id)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Unavailable("Failed to count notifications", err)
	}
	return count, nil
}
