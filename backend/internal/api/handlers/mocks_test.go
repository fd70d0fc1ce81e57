package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockItemService is a mock implementation of ItemServicer
type MockItemService struct {
	CreateItemFunc    func(ctx context.Context, in service.CreateItemInput) (*repository.Item, error)
	GetItemFunc       func(ctx context.Context, id uuid.UUID) (*repository.Item, error)
	ListItemsFunc     func(ctx context.Context, params repository.ListItemsParams) ([]repository.Item, int64, error)
	ListMyItemsFunc   func(ctx context.Context, email string) ([]repository.Item, error)
	UpdateItemFunc    func(ctx context.Context, id uuid.UUID, in service.UpdateItemInput) (*repository.Item, error)
	DeleteItemFunc    func(ctx context.Context, id uuid.UUID) error
	SeedDemoItemsFunc func(ctx context.Context, email, name string) (int, error)
}

func (m *MockItemService) CreateItem(ctx context.Context, in service.CreateItemInput) (*repository.Item, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *MockItemService) GetItem(ctx context.Context, id uuid.UUID) (*repository.Item, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	return nil, db.ErrNotFound
}

func (m *MockItemService) ListItems(ctx context.Context, params repository.ListItemsParams) ([]repository.Item, int64, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, params)
	}
	return []repository.Item{}, 0, nil
}

func (m *MockItemService) ListMyItems(ctx context.Context, email string) ([]repository.Item, error) {
	if m.ListMyItemsFunc != nil {
		return m.ListMyItemsFunc(ctx, email)
	}
	return []repository.Item{}, nil
}

func (m *MockItemService) UpdateItem(ctx context.Context, id uuid.UUID, in service.UpdateItemInput) (*repository.Item, error) {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, id, in)
	}
	return nil, db.ErrNotFound
}

func (m *MockItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, id)
	}
	return nil
}

func (m *MockItemService) SeedDemoItems(ctx context.Context, email, name string) (int, error) {
	if m.SeedDemoItemsFunc != nil {
		return m.SeedDemoItemsFunc(ctx, email, name)
	}
	return 0, nil
}

// MockMatchService is a mock implementation of MatchServicer
type MockMatchService struct {
	GetMatchesFunc func(ctx context.Context, id uuid.UUID, opts service.MatchOptions) (*service.MatchListing, error)
	ScorePairFunc  func(lost, found matching.Item) matching.MatchResult
}

func (m *MockMatchService) GetMatches(ctx context.Context, id uuid.UUID, opts service.MatchOptions) (*service.MatchListing, error) {
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(ctx, id, opts)
	}
	return nil, db.ErrNotFound
}

func (m *MockMatchService) ScorePair(lost, found matching.Item) matching.MatchResult {
	if m.ScorePairFunc != nil {
		return m.ScorePairFunc(lost, found)
	}
	return matching.MatchResult{}
}

// MockNotificationService is a mock implementation of NotificationServicer
type MockNotificationService struct {
	ListNotificationsFunc func(ctx context.Context, email string, limit, offset int32) ([]repository.Notification, int64, error)
	MarkAsReadFunc        func(ctx context.Context, id uuid.UUID) error
	MarkAllAsReadFunc     func(ctx context.Context, email string) (int64, error)
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, email string, limit, offset int32) ([]repository.Notification, int64, error) {
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc(ctx, email, limit, offset)
	}
	return []repository.Notification{}, 0, nil
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, id)
	}
	return nil
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, email string) (int64, error) {
	if m.MarkAllAsReadFunc != nil {
		return m.MarkAllAsReadFunc(ctx, email)
	}
	return 0, nil
}

type testServices struct {
	items         *MockItemService
	matches       *MockMatchService
	notifications *MockNotificationService
	demoEnabled   bool
}

func newTestRouter(s testServices) *gin.Engine {
	if s.items == nil {
		s.items = &MockItemService{}
	}
	if s.matches == nil {
		s.matches = &MockMatchService{}
	}
	if s.notifications == nil {
		s.notifications = &MockNotificationService{}
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Items:         NewItemHandler(s.items, s.demoEnabled),
		Matches:       NewMatchHandler(s.matches),
		Notifications: NewNotificationHandler(s.notifications),
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope decodes the API envelope with data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *api.APIError   `json:"error"`
	Meta    *api.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
