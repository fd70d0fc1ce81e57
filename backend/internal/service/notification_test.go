package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListNotifications(t *testing.T) {
	store := &fakeNotificationStore{
		list:   []repository.Notification{{Title: "Post Successful"}, {Title: "High Confidence Match!"}},
		unread: 2,
	}
	svc := NewNotificationService(store)

	list, unread, err := svc.ListNotifications(context.Background(), " me@example.com ", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, unread)
	assert.Equal(t, "me@example.com", store.lastFor)
}

func TestNotificationService_ListNotifications_Error(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{err: errors.New("down")})
	_, _, err := svc.ListNotifications(context.Background(), "", 20, 0)
	assert.Error(t, err)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store)
	id := uuid.New()

	require.NoError(t, svc.MarkAsRead(context.Background(), id))
	assert.Equal(t, id, store.lastID)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	store := &fakeNotificationStore{unread: 4}
	svc := NewNotificationService(store)

	n, err := svc.MarkAllAsRead(context.Background(), "me@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	count, err := svc.CountUnread(context.Background(), "me@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}
