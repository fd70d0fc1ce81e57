package service

import (
	"context"
	"strings"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListNotifications returns a page of notifications visible to email
// (everything when email is empty) and the unread count.
func (s *NotificationService) ListNotifications(ctx context.Context, email string, limit, offset int32) ([]repository.Notification, int64, error) {
	email = strings.TrimSpace(email)
	list, err := s.notifications.ListNotifications(ctx, repository.ListNotificationsParams{
		RecipientEmail: email,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notifications.CountUnread(ctx, email)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifications.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, email string) (int64, error) {
	return s.notifications.MarkAllAsRead(ctx, strings.TrimSpace(email))
}

func (s *NotificationService) CountUnread(ctx context.Context, email string) (int64, error) {
	return s.notifications.CountUnread(ctx, strings.TrimSpace(email))
}
