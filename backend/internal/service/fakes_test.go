package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/notify"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
)

// fakeItemStore keeps items in insertion order; candidate lists come back
// in that order.
type fakeItemStore struct {
	items      []repository.Item
	createErr  error
	listErr    error
	lastParams repository.ListItemsParams

	getCalls       int
	candidateCalls int
}

func (f *fakeItemStore) add(item repository.Item) repository.Item {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = matching.StatusOpen
	}
	f.items = append(f.items, item)
	return item
}

func (f *fakeItemStore) CreateItem(_ context.Context, req repository.CreateItemRequest) (*repository.Item, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	item := f.add(repository.Item{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		LastSeenTime: req.LastSeenTime,
		Status:       req.Status,
		ImageURL:     req.ImageURL,
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		ReportedOn:   req.ReportedOn,
	})
	return &item, nil
}

func (f *fakeItemStore) GetItem(_ context.Context, id uuid.UUID) (*repository.Item, error) {
	f.getCalls++
	for _, item := range f.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeItemStore) ListItems(_ context.Context, params repository.ListItemsParams) ([]repository.Item, error) {
	f.lastParams = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeItemStore) CountItems(context.Context, repository.ListItemsParams) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeItemStore) ListCandidates(_ context.Context, category matching.Category, status matching.Status) ([]repository.Item, error) {
	f.candidateCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []repository.Item{}
	for _, item := range f.items {
		if category != "" && !strings.EqualFold(string(item.Category), string(category)) {
			continue
		}
		if item.Status != status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeItemStore) ListItemsByUser(_ context.Context, email string) ([]repository.Item, error) {
	out := []repository.Item{}
	for _, item := range f.items {
		if strings.EqualFold(item.UserEmail, email) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemStore) UpdateItem(_ context.Context, id uuid.UUID, req repository.UpdateItemRequest) (*repository.Item, error) {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		item := &f.items[i]
		if req.Title != nil {
			item.Title = *req.Title
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Location != nil {
			item.Location = *req.Location
		}
		if req.LastSeenTime != nil {
			item.LastSeenTime = req.LastSeenTime
		}
		if req.Status != nil {
			item.Status = *req.Status
		}
		if req.ImageURL != nil {
			item.ImageURL = *req.ImageURL
		}
		updated := *item
		return &updated, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeItemStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type fakeNotificationStore struct {
	created []repository.CreateNotificationRequest
	list    []repository.Notification
	unread  int64
	err     error
	lastID  uuid.UUID
	lastFor string
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, req repository.CreateNotificationRequest) (*repository.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &repository.Notification{ID: uuid.New(), Type: req.Type, Title: req.Title, Message: req.Message, Link: req.Link}, nil
}

func (f *fakeNotificationStore) ListNotifications(_ context.Context, params repository.ListNotificationsParams) ([]repository.Notification, error) {
	f.lastFor = params.RecipientEmail
	return f.list, f.err
}

func (f *fakeNotificationStore) MarkAsRead(_ context.Context, id uuid.UUID) error {
	f.lastID = id
	return f.err
}

func (f *fakeNotificationStore) MarkAllAsRead(_ context.Context, email string) (int64, error) {
	f.lastFor = email
	return f.unread, f.err
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, email string) (int64, error) {
	f.lastFor = email
	return f.unread, f.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.MatchEvent
	err    error
}

func (r *recordingNotifier) NotifyMatch(_ context.Context, e notify.MatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

type hookCall struct {
	action   string
	category matching.Category
}

type recordingHook struct {
	mu    sync.Mutex
	calls []hookCall
	err   error
}

func (r *recordingHook) DispatchItem(_ context.Context, action string, category matching.Category, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, hookCall{action: action, category: category})
	return r.err
}

// fakeCache is an in-memory MatchCache.
type fakeCache struct {
	matches     map[string][]matching.MatchResult
	announced   map[string]bool
	invalidated []string
	sets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{matches: map[string][]matching.MatchResult{}, announced: map[string]bool{}}
}

func (c *fakeCache) GetMatches(_ context.Context, id string) ([]matching.MatchResult, bool, error) {
	m, ok := c.matches[id]
	return m, ok, nil
}

func (c *fakeCache) SetMatches(_ context.Context, id string, results []matching.MatchResult, _ time.Duration) error {
	c.sets++
	c.matches[id] = results
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(c.matches, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func (c *fakeCache) MarkAnnounced(_ context.Context, target, candidate string) (bool, error) {
	key := target + ":" + candidate
	if c.announced[key] {
		return false, nil
	}
	c.announced[key] = true
	return true, nil
}

func (c *fakeCache) ClearAnnounced(_ context.Context, target, candidate string) error {
	delete(c.announced, target+":"+candidate)
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }
