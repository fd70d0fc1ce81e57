package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// NotificationType classifies an in-app notification
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationMatch   NotificationType = "match"
	NotificationMessage NotificationType = "message"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(conn db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: conn}
}

// Notification represents an in-app notification
type Notification struct {
	ID             uuid.UUID        `json:"id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Link           string           `json:"link,omitempty"`
	IsRead         bool             `json:"is_read"`
	RecipientEmail *string          `json:"recipient_email,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CreateNotificationRequest represents the request to create a notification
type CreateNotificationRequest struct {
	Type           NotificationType
	Title          string
	Message        string
	Link           string
	RecipientEmail *string
}

// ListNotificationsParams represents parameters for listing notifications.
// An empty RecipientEmail lists everything; otherwise broadcast
// notifications (no recipient) are included alongside the user's own.
type ListNotificationsParams struct {
	RecipientEmail string
	Limit          int32
	Offset         int32
}

const notificationColumns = `id, type, title, message, link, is_read, recipient_email, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var (
		id        pgtype.UUID
		recipient pgtype.Text
		createdAt pgtype.Timestamptz
		n         Notification
		typ       string
	)
	if err := row.Scan(&id, &typ, &n.Title, &n.Message, &n.Link, &n.IsRead, &recipient, &createdAt); err != nil {
		return Notification{}, err
	}
	n.ID = pgUUIDToUUID(id)
	n.Type = NotificationType(typ)
	n.RecipientEmail = pgTextToString(recipient)
	if createdAt.Valid {
		n.CreatedAt = createdAt.Time
	}
	return n, nil
}

// CreateNotification inserts a notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*Notification, error) {
	typ := req.Type
	if typ == "" {
		typ = NotificationInfo
	}
	n, err := scanNotification(r.db.QueryRow(ctx, `
		INSERT INTO notifications (type, title, message, link, recipient_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		string(typ), req.Title, req.Message, req.Link, stringToPgText(req.RecipientEmail),
	))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications returns notifications newest first
func (r *NotificationRepository) ListNotifications(ctx context.Context, params ListNotificationsParams) ([]Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE ($1::text = '' OR recipient_email IS NULL OR LOWER(recipient_email) = LOWER($1::text))
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		params.RecipientEmail, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAsRead flags a single notification as read
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, uuidToPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// MarkAllAsRead flags every unread notification visible to recipient as read
// and returns how many changed.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, recipientEmail string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE NOT is_read
		  AND ($1::text = '' OR recipient_email IS NULL OR LOWER(recipient_email) = LOWER($1::text))`,
		recipientEmail,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountUnread returns the number of unread notifications visible to recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientEmail string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE NOT is_read
		  AND ($1::text = '' OR recipient_email IS NULL OR LOWER(recipient_email) = LOWER($1::text))`,
		recipientEmail,
	).Scan(&count)
	return count, err
}
