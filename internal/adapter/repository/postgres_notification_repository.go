package repository

import (
	"context"
	"database/sql"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO notifications (user_id, sender_id, title, message, type, is_read, related_item_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
		n.UserID, nullString(n.SenderID), n.Title, n.Message, n.Type, n.IsRead,
		nullString(n.RelatedItemID), n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1", userID,
	).Scan(&total); err != nil {
		return nil, 0, errors.Internal("Failed to count notifications", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, sender_id, title, message, type, is_read, related_item_id, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list notifications", err)
	}
	defer rows.Close()

	items := []entity.Notification{}
	for rows.Next() {
		var (
			n       entity.Notification
			sender  sql.NullString
			related sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &sender, &n.Title, &n.Message, &n.Type, &n.IsRead, &related, &n.CreatedAt); err != nil {
			return nil, 0, errors.Internal("Failed to parse notification", err)
		}
		if sender.Valid {
			n.SenderID = &sender.String
		}
		if related.Valid {
			n.RelatedItemID = &related.String
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Internal("Failed to list notifications", err)
	}
	return items, total, nil
}

// MarkAsRead only touches notifications addressed to userID.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return errors.Internal("Failed to update notification", err)
	}
	return expectOneRow(res, "Notification")
}

func (r *postgresNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read", userID,
	).Scan(&n)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return n, nil
}
