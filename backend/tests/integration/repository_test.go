//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createItem(t *testing.T, repo *repository.ItemRepository, req repository.CreateItemRequest) *repository.Item {
	t.Helper()
	if req.Status == "" {
		req.Status = matching.StatusOpen
	}
	if req.UserName == "" {
		req.UserName = "Anonymous"
	}
	if req.UserEmail == "" {
		req.UserEmail = "anonymous@foundira.com"
	}
	if req.ReportedOn.IsZero() {
		req.ReportedOn = time.Now()
	}
	item, err := repo.CreateItem(context.Background(), req)
	require.NoError(t, err)
	return item
}

func TestItemRepository_CRUD(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewItemRepository(testDB.Pool)

	seen := time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Microsecond)
	created := createItem(t, repo, repository.CreateItemRequest{
		Title:        "Black Wallet",
		Description:  "Leather wallet with student ID",
		Category:     matching.CategoryLost,
		Location:     "Main Library",
		LastSeenTime: &seen,
		UserEmail:    "alex@example.com",
	})

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, matching.StatusOpen, created.Status)
	require.NotNil(t, created.LastSeenTime)
	assert.True(t, seen.Equal(*created.LastSeenTime))

	got, err := repo.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Black Wallet", got.Title)

	resolved := matching.StatusResolved
	newTitle := "Black Leather Wallet"
	updated, err := repo.UpdateItem(ctx, created.ID, repository.UpdateItemRequest{
		Title:  &newTitle,
		Status: &resolved,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, matching.StatusResolved, updated.Status)
	assert.Equal(t, "Main Library", updated.Location, "omitted fields are unchanged")

	require.NoError(t, repo.DeleteItem(ctx, created.ID))

	_, err = repo.GetItem(ctx, created.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteItem(ctx, created.ID), db.ErrNotFound)

	_, err = repo.UpdateItem(ctx, created.ID, repository.UpdateItemRequest{Title: &newTitle})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestItemRepository_ListAndFilter(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewItemRepository(testDB.Pool)

	createItem(t, repo, repository.CreateItemRequest{Title: "Lost keys", Category: matching.CategoryLost, Location: "Gym"})
	createItem(t, repo, repository.CreateItemRequest{Title: "Found umbrella", Category: matching.CategoryFound, Location: "Cafeteria"})
	createItem(t, repo, repository.CreateItemRequest{Title: "Found keys 100%", Category: matching.CategoryFound, Description: "Ring with 3 keys"})

	all, err := repo.ListItems(ctx, repository.ListItemsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Found keys 100%", all[0].Title, "newest first")

	found, err := repo.ListItems(ctx, repository.ListItemsParams{Category: "found", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	keys, err := repo.ListItems(ctx, repository.ListItemsParams{Search: "KEYS", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	// wildcard characters are matched literally
	pct, err := repo.ListItems(ctx, repository.ListItemsParams{Search: "100%", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, pct, 1)

	count, err := repo.CountItems(ctx, repository.ListItemsParams{Category: "Found"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	page, err := repo.ListItems(ctx, repository.ListItemsParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Found umbrella", page[0].Title)
}

func TestItemRepository_ListCandidatesAndByUser(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewItemRepository(testDB.Pool)

	createItem(t, repo, repository.CreateItemRequest{Title: "Found phone", Category: matching.CategoryFound, UserEmail: "sam@example.com"})
	createItem(t, repo, repository.CreateItemRequest{Title: "Found laptop", Category: matching.CategoryFound, Status: matching.StatusResolved})
	createItem(t, repo, repository.CreateItemRequest{Title: "Lost phone", Category: matching.CategoryLost, UserEmail: "Sam@Example.com"})

	openFound, err := repo.ListCandidates(ctx, matching.CategoryFound, matching.StatusOpen)
	require.NoError(t, err)
	require.Len(t, openFound, 1)
	assert.Equal(t, "Found phone", openFound[0].Title)

	anyOpen, err := repo.ListCandidates(ctx, "", matching.StatusOpen)
	require.NoError(t, err)
	assert.Len(t, anyOpen, 2)

	mine, err := repo.ListItemsByUser(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2, "email match is case-insensitive")
}

func TestItemRepository_RejectsUnknownCategory(t *testing.T) {
	resetTables(t)
	repo := repository.NewItemRepository(testDB.Pool)

	_, err := repo.CreateItem(context.Background(), repository.CreateItemRequest{
		Title:      "Mystery",
		Category:   matching.Category("Stolen"),
		Status:     matching.StatusOpen,
		ReportedOn: time.Now(),
	})
	assert.Error(t, err)
}

func TestNotificationRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewNotificationRepository(testDB.Pool)

	alex := "alex@example.com"
	sam := "sam@example.com"

	mine, err := repo.CreateNotification(ctx, repository.CreateNotificationRequest{
		Type: repository.NotificationMatch, Title: "High Confidence Match!", Message: "m", Link: "/matches", RecipientEmail: &alex,
	})
	require.NoError(t, err)
	_, err = repo.CreateNotification(ctx, repository.CreateNotificationRequest{Title: "Welcome", Message: "broadcast"})
	require.NoError(t, err)
	_, err = repo.CreateNotification(ctx, repository.CreateNotificationRequest{Title: "Other", Message: "x", RecipientEmail: &sam})
	require.NoError(t, err)

	list, err := repo.ListNotifications(ctx, repository.ListNotificationsParams{RecipientEmail: "ALEX@example.com", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2, "own plus broadcast")
	assert.Equal(t, "Welcome", list[0].Title, "newest first")
	assert.Equal(t, repository.NotificationInfo, list[0].Type, "type defaults to info")

	unread, err := repo.CountUnread(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.MarkAsRead(ctx, mine.ID))
	unread, err = repo.CountUnread(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	assert.ErrorIs(t, repo.MarkAsRead(ctx, uuid.New()), db.ErrNotFound)

	changed, err := repo.MarkAllAsRead(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	unread, err = repo.CountUnread(ctx, sam)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread, "other users are untouched")
}
