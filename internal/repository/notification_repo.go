package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devconnect-api/internal/model"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create persists a notification. Follow notifications are keyed by
// (type, from, to) via a partial unique index, so a duplicate follow
// action collapses onto the existing unresolved row instead of
// inserting a second one. The bool reports whether a new row was
// actually inserted.
func (r *NotificationRepository) Create(ctx context.Context, n model.Notification) (model.Notification, bool, error) {
	if n.Data == nil {
		n.Data = map[string]any{}
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (type, from_id, to_id, message, data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (type, from_id, to_id) WHERE type = 'follow' DO NOTHING
		 RETURNING id, read, created_at`,
		n.Type, n.From.ID, n.To, n.Message, n.Data).
		Scan(&n.ID, &n.Read, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Dedup hit: hand back the existing row.
		existing, findErr := r.findByTriple(ctx, n.Type, n.From.ID, n.To)
		if findErr != nil {
			return model.Notification{}, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return model.Notification{}, false, fmt.Errorf("create notification: %w", err)
	}
	return n, true, nil
}

func (r *NotificationRepository) findByTriple(ctx context.Context, typ model.NotificationType, fromID string, toID string) (model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, from_id, to_id, message, data, read, created_at
		 FROM notifications
		 WHERE type = $1 AND from_id = $2 AND to_id = $3`,
		typ, fromID, toID).
		Scan(&n.ID, &n.Type, &n.From.ID, &n.To, &n.Message, &n.Data, &n.Read, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, model.ErrNotificationNotFound
	}
	if err != nil {
		return model.Notification{}, fmt.Errorf("find notification by triple: %w", err)
	}
	return n, nil
}

// MarkRead is an idempotent flip to read=true; marking an already-read
// notification succeeds without change.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx,
		`UPDATE notifications SET read = true
		 WHERE id = $1
		 RETURNING id, type, from_id, to_id, message, data, read, created_at`,
		id).
		Scan(&n.ID, &n.Type, &n.From.ID, &n.To, &n.Message, &n.Data, &n.Read, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, model.ErrNotificationNotFound
	}
	if err != nil {
		return model.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// DeleteByTriple removes the notification matching (type, from, to)
// and returns its id. Clients reversing a follow do not track the
// notification id, so deletion is keyed by the triple.
func (r *NotificationRepository) DeleteByTriple(ctx context.Context, typ model.NotificationType, fromID string, toID string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM notifications
		 WHERE id IN (
		     SELECT id FROM notifications
		     WHERE type = $1 AND from_id = $2 AND to_id = $3
		     ORDER BY created_at DESC
		     LIMIT 1
		 )
		 RETURNING id`,
		typ, fromID, toID).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrNotificationNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete notification: %w", err)
	}
	return id, nil
}

// RecentForUser returns the recipient's inbox window, newest first,
// with the sender's username/avatar resolved.
func (r *NotificationRepository) RecentForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.type, n.from_id, u.username, u.avatar,
		        n.to_id, n.message, n.data, n.read, n.created_at
		 FROM notifications n
		 JOIN users u ON u.id = n.from_id
		 WHERE n.to_id = $1
		 ORDER BY n.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.From.ID, &n.From.Username, &n.From.Avatar,
			&n.To, &n.Message, &n.Data, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
