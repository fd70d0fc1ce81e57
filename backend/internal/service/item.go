package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/cache"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/notify"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmailRequired   = errors.New("user email required")
	ErrInvalidCategory = errors.New("category must be Lost or Found")
	ErrInvalidStatus   = errors.New("status must be Open or Resolved")
)

const (
	DefaultUserName  = "Anonymous"
	DefaultUserEmail = "anonymous@foundira.com"
	DefaultImageURL  = "https://placehold.co/300x200/png?text=No+Image"

	webhookTimeout = 30 * time.Second
)

type CreateItemInput struct {
	Title        string
	Description  string
	Category     string
	Location     string
	LastSeenTime *time.Time
	ImageURL     string
	UserName     string
	UserEmail    string
}

type UpdateItemInput struct {
	Title        *string
	Description  *string
	Category     *string
	Location     *string
	LastSeenTime *time.Time
	Status       *string
	ImageURL     *string
}

type ItemService struct {
	items         ItemStore
	notifications NotificationCreator
	hook          notify.ItemHook
	cache         cache.MatchCache
	now           func() time.Time

	pending sync.WaitGroup
}

func NewItemService(items ItemStore, notifications NotificationCreator, hook notify.ItemHook, matchCache cache.MatchCache) *ItemService {
	if hook == nil {
		hook = notify.Noop{}
	}
	if matchCache == nil {
		matchCache = cache.NoopCache{}
	}
	return &ItemService{
		items:         items,
		notifications: notifications,
		hook:          hook,
		cache:         matchCache,
		now:           time.Now,
	}
}

// ParseCategory accepts Lost or Found in any letter case.
func ParseCategory(s string) (matching.Category, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(matching.CategoryLost)):
		return matching.CategoryLost, nil
	case strings.EqualFold(strings.TrimSpace(s), string(matching.CategoryFound)):
		return matching.CategoryFound, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseStatus accepts Open or Resolved in any letter case.
func ParseStatus(s string) (matching.Status, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(matching.StatusOpen)):
		return matching.StatusOpen, nil
	case strings.EqualFold(strings.TrimSpace(s), string(matching.StatusResolved)):
		return matching.StatusResolved, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// CreateItem stores a new open report, posts a confirmation notification to
// its owner and fires the "create" webhook.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*repository.Item, error) {
	category, err := ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	item, err := s.items.CreateItem(ctx, repository.CreateItemRequest{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Category:     category,
		Location:     in.Location,
		LastSeenTime: in.LastSeenTime,
		Status:       matching.StatusOpen,
		ImageURL:     orDefault(in.ImageURL, DefaultImageURL),
		UserName:     orDefault(in.UserName, DefaultUserName),
		UserEmail:    orDefault(in.UserEmail, DefaultUserEmail),
		ReportedOn:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	recipient := item.UserEmail
	if _, err := s.notifications.CreateNotification(ctx, repository.CreateNotificationRequest{
		Type:           repository.NotificationInfo,
		Title:          "Post Successful",
		Message:        fmt.Sprintf("Your %s item %q has been posted.", item.Category, item.Title),
		Link:           "/myposts",
		RecipientEmail: &recipient,
	}); err != nil {
		logger.Warn().Err(err).Str("item_id", item.ID.String()).Msg("failed to create post notification")
	}

	s.invalidateMatches(ctx, *item, false)
	s.dispatch(ctx, "create", *item)
	return item, nil
}

// invalidateMatches drops the cached listings a change to item can affect:
// its own and those of every open report on the opposite side. When the
// category itself changed, every open listing is dropped.
func (s *ItemService) invalidateMatches(ctx context.Context, item repository.Item, categoryChanged bool) {
	if _, ok := s.cache.(cache.NoopCache); ok {
		return
	}

	ids := []string{item.ID.String()}
	side := item.Category.Opposite()
	if categoryChanged {
		side = ""
	}
	targets, err := s.items.ListCandidates(ctx, side, matching.StatusOpen)
	if err != nil {
		logger.Warn().Err(err).Str("item_id", item.ID.String()).Msg("failed to list listings to invalidate")
	}
	for _, t := range targets {
		if t.ID != item.ID {
			ids = append(ids, t.ID.String())
		}
	}

	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		logger.Warn().Err(err).Str("item_id", item.ID.String()).Msg("failed to invalidate cached matches")
	}
}

// dispatch sends the lifecycle webhook in the background. Failures are logged.
func (s *ItemService) dispatch(ctx context.Context, action string, item repository.Item) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), webhookTimeout)
		defer cancel()
		if err := s.hook.DispatchItem(ctx, action, item.Category, item); err != nil {
			logger.Warn().Err(err).Str("action", action).Str("item_id", item.ID.String()).Msg("item webhook failed")
		}
	}()
}

// Wait blocks until in-flight webhooks finish.
func (s *ItemService) Wait() {
	s.pending.Wait()
}

func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*repository.Item, error) {
	return s.items.GetItem(ctx, id)
}

// ListItems returns a page of items and the total matching the filter.
func (s *ItemService) ListItems(ctx context.Context, params repository.ListItemsParams) ([]repository.Item, int64, error) {
	items, err := s.items.ListItems(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.items.CountItems(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ItemService) ListMyItems(ctx context.Context, email string) ([]repository.Item, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return s.items.ListItemsByUser(ctx, email)
}

// UpdateItem applies a partial update, drops the cached matches it can
// affect and fires the "update" webhook.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*repository.Item, error) {
	req := repository.UpdateItemRequest{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		LastSeenTime: in.LastSeenTime,
		ImageURL:     in.ImageURL,
	}
	if in.Category != nil {
		category, err := ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		req.Category = &category
	}
	if in.Status != nil {
		status, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}

	item, err := s.items.UpdateItem(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidateMatches(ctx, *item, req.Category != nil)
	s.dispatch(ctx, "update", *item)
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidateMatches(ctx, *item, false)
	return nil
}

// SeedDemoItems gives a new user three sample reports. Users who already
// own items are left alone. Returns the number of items created.
func (s *ItemService) SeedDemoItems(ctx context.Context, email, name string) (int, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, ErrEmailRequired
	}
	existing, err := s.items.ListItemsByUser(ctx, email)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	name = orDefault(name, DefaultUserName)
	created := 0
	for _, req := range demoItems(s.now(), name, email) {
		if _, err := s.items.CreateItem(ctx, req); err != nil {
			return created, fmt.Errorf("seed demo item %q: %w", req.Title, err)
		}
		created++
	}
	logger.Info().Str("user_email", email).Int("count", created).Msg("seeded demo items")
	return created, nil
}

func demoItems(now time.Time, name, email string) []repository.CreateItemRequest {
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	return []repository.CreateItemRequest{
		{
			Title:        "Lost AirPods Pro",
			Description:  "White AirPods Pro with charging case. Lost in the study hall during evening hours.",
			Category:     matching.CategoryLost,
			Location:     "Study Hall - 2nd Floor",
			LastSeenTime: ago(2 * time.Hour),
			Status:       matching.StatusOpen,
			ImageURL:     "https://images.unsplash.com/photo-1606841837239-c5a1a4a07af7?auto=format&fit=crop&w=400",
			UserName:     name,
			UserEmail:    email,
			ReportedOn:   now,
		},
		{
			Title:        "Found Water Bottle",
			Description:  "Stainless steel water bottle with university sticker. Found near the basketball court.",
			Category:     matching.CategoryFound,
			Location:     "Basketball Court",
			LastSeenTime: ago(4 * time.Hour),
			Status:       matching.StatusOpen,
			ImageURL:     "https://images.unsplash.com/photo-1602143407151-7111542de6e8?auto=format&fit=crop&w=400",
			UserName:     name,
			UserEmail:    email,
			ReportedOn:   now,
		},
		{
			Title:        "Lost Textbook",
			Description:  "Computer Science textbook 'Introduction to Algorithms'. Has my name written inside the cover.",
			Category:     matching.CategoryLost,
			Location:     "Library - 3rd Floor",
			LastSeenTime: ago(24 * time.Hour),
			Status:       matching.StatusOpen,
			ImageURL:     "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?auto=format&fit=crop&w=400",
			UserName:     name,
			UserEmail:    email,
			ReportedOn:   now.Add(-24 * time.Hour),
		},
	}
}
