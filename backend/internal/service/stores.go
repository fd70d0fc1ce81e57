package service

import (
	"context"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
)

// ItemStore is the item persistence used by the services.
type ItemStore interface {
	CreateItem(ctx context.Context, req repository.CreateItemRequest) (*repository.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*repository.Item, error)
	ListItems(ctx context.Context, params repository.ListItemsParams) ([]repository.Item, error)
	CountItems(ctx context.Context, params repository.ListItemsParams) (int64, error)
	ListCandidates(ctx context.Context, category matching.Category, status matching.Status) ([]repository.Item, error)
	ListItemsByUser(ctx context.Context, email string) ([]repository.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req repository.UpdateItemRequest) (*repository.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// CandidateStore is the read side MatchService needs.
type CandidateStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*repository.Item, error)
	ListCandidates(ctx context.Context, category matching.Category, status matching.Status) ([]repository.Item, error)
}

// NotificationStore is the notification persistence used by the services.
type NotificationStore interface {
	CreateNotification(ctx context.Context, req repository.CreateNotificationRequest) (*repository.Notification, error)
	ListNotifications(ctx context.Context, params repository.ListNotificationsParams) ([]repository.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientEmail string) (int64, error)
	CountUnread(ctx context.Context, recipientEmail string) (int64, error)
}

// NotificationCreator is the write-only slice of NotificationStore.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req repository.CreateNotificationRequest) (*repository.Notification, error)
}
