package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ItemServicer is the item workflow the handler drives
type ItemServicer interface {
	CreateItem(ctx context.Context, in service.CreateItemInput) (*repository.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*repository.Item, error)
	ListItems(ctx context.Context, params repository.ListItemsParams) ([]repository.Item, int64, error)
	ListMyItems(ctx context.Context, email string) ([]repository.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in service.UpdateItemInput) (*repository.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SeedDemoItems(ctx context.Context, email, name string) (int, error)
}

// ItemHandler handles lost and found report requests
type ItemHandler struct {
	items       ItemServicer
	validator   *validator.Validate
	demoEnabled bool
}

func NewItemHandler(items ItemServicer, demoEnabled bool) *ItemHandler {
	return &ItemHandler{
		items:       items,
		validator:   validator.New(),
		demoEnabled: demoEnabled,
	}
}

// ItemResponse is a report as returned by the API
type ItemResponse struct {
	ID           string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title        string     `json:"title" example:"Blue Backpack"`
	Description  string     `json:"description" example:"Navy backpack with a laptop inside"`
	Category     string     `json:"category" example:"Lost" enums:"Lost,Found"`
	Location     string     `json:"location" example:"Main Library"`
	LastSeenTime *time.Time `json:"last_seen_time,omitempty" example:"2024-04-10T18:00:00Z"`
	Status       string     `json:"status" example:"Open" enums:"Open,Resolved"`
	ImageURL     string     `json:"image_url"`
	UserName     string     `json:"user_name" example:"Anonymous"`
	UserEmail    string     `json:"user_email" example:"anonymous@foundira.com"`
	ReportedOn   string     `json:"reported_on" example:"2024-04-10"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateItemRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Category     string     `json:"category" validate:"required,oneof=Lost Found lost found"`
	Location     string     `json:"location" validate:"max=255"`
	LastSeenTime *time.Time `json:"last_seen_time,omitempty"`
	ImageURL     string     `json:"image_url,omitempty" validate:"omitempty,url,max=1000"`
	UserName     string     `json:"user_name,omitempty" validate:"max=100"`
	UserEmail    string     `json:"user_email,omitempty" validate:"omitempty,email,max=255"`
}

// UpdateItemRequest is a partial update; omitted fields are unchanged
type UpdateItemRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category     *string    `json:"category,omitempty" validate:"omitempty,oneof=Lost Found lost found"`
	Location     *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	LastSeenTime *time.Time `json:"last_seen_time,omitempty"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=Open Resolved open resolved"`
	ImageURL     *string    `json:"image_url,omitempty" validate:"omitempty,url,max=1000"`
}

type ListItemsQuery struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Category string `form:"category" validate:"omitempty,oneof=Lost Found lost found"`
	Search   string `form:"search" validate:"omitempty,max=255"`
}

type MyItemsQuery struct {
	Email string `form:"email" validate:"required,email"`
}

type SeedDemoRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}

func itemToResponse(item *repository.Item) ItemResponse {
	resp := ItemResponse{
		ID:           item.ID.String(),
		Title:        item.Title,
		Description:  item.Description,
		Category:     string(item.Category),
		Location:     item.Location,
		LastSeenTime: item.LastSeenTime,
		Status:       string(item.Status),
		ImageURL:     item.ImageURL,
		UserName:     item.UserName,
		UserEmail:    item.UserEmail,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if !item.ReportedOn.IsZero() {
		resp.ReportedOn = item.ReportedOn.Format("2006-01-02")
	}
	return resp
}

func itemsToResponse(items []repository.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(&items[i])
	}
	return out
}

// CreateItem reports a lost or found item
// @Summary Create an item
// @Tags items
// @Accept json
// @Produce json
// @Param item body CreateItemRequest true "Item report"
// @Success 201 {object} api.APIResponse{data=ItemResponse}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), service.CreateItemInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		LastSeenTime: req.LastSeenTime,
		ImageURL:     req.ImageURL,
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
	})
	if err != nil {
		sendServiceError(c, err, "Item", "create item")
		return
	}

	api.SendSuccess(c, http.StatusCreated, itemToResponse(item), nil)
}

// GetItem retrieves an item by ID
// @Summary Get an item
// @Tags items
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=ItemResponse}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "item")
	if !ok {
		return
	}

	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		sendServiceError(c, err, "Item", "retrieve item")
		return
	}

	api.SendSuccess(c, http.StatusOK, itemToResponse(item), nil)
}

// ListItems lists items newest first
// @Summary List items
// @Tags items
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20) maximum(100)
// @Param category query string false "Lost or Found"
// @Param search query string false "Substring of title, description or location"
// @Success 200 {object} api.APIResponse{data=[]ItemResponse,meta=api.Meta}
// @Router /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var query ListItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	items, total, err := h.items.ListItems(c.Request.Context(), repository.ListItemsParams{
		Category: query.Category,
		Search:   query.Search,
		Limit:    int32(query.Limit),
		Offset:   int32((query.Page - 1) * query.Limit),
	})
	if err != nil {
		sendServiceError(c, err, "Items", "list items")
		return
	}

	api.SendSuccess(c, http.StatusOK, itemsToResponse(items), &api.Meta{
		Pagination: api.NewPaginationMeta(query.Page, query.Limit, total),
	})
}

// ListMyItems lists the items reported by one user
// @Summary List my items
// @Tags items
// @Produce json
// @Param email query string true "Reporter email"
// @Success 200 {object} api.APIResponse{data=[]ItemResponse}
// @Router /items/mine [get]
func (h *ItemHandler) ListMyItems(c *gin.Context) {
	var query MyItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	items, err := h.items.ListMyItems(c.Request.Context(), query.Email)
	if err != nil {
		sendServiceError(c, err, "Items", "list items")
		return
	}

	api.SendSuccess(c, http.StatusOK, itemsToResponse(items), nil)
}

// UpdateItem partially updates an item
// @Summary Update an item
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param item body UpdateItemRequest true "Fields to change"
// @Success 200 {object} api.APIResponse{data=ItemResponse}
// @Router /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "item")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), id, service.UpdateItemInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		LastSeenTime: req.LastSeenTime,
		Status:       req.Status,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		sendServiceError(c, err, "Item", "update item")
		return
	}

	api.SendSuccess(c, http.StatusOK, itemToResponse(item), nil)
}

// DeleteItem removes an item
// @Summary Delete an item
// @Tags items
// @Param id path string true "Item ID" format(uuid)
// @Success 204
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "item")
	if !ok {
		return
	}

	if err := h.items.DeleteItem(c.Request.Context(), id); err != nil {
		sendServiceError(c, err, "Item", "delete item")
		return
	}

	c.Status(http.StatusNoContent)
}

// SeedDemoItems gives a first-time user three sample reports
// @Summary Seed demo items
// @Tags demo
// @Accept json
// @Produce json
// @Param body body SeedDemoRequest true "User to seed"
// @Success 200 {object} api.APIResponse
// @Router /demo/seed [post]
func (h *ItemHandler) SeedDemoItems(c *gin.Context) {
	if !h.demoEnabled {
		api.SendError(c, http.StatusForbidden, api.ErrCodeDisabled, "Demo seeding is disabled", "")
		return
	}

	var req SeedDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	created, err := h.items.SeedDemoItems(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		sendServiceError(c, err, "Items", "seed demo items")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"created": created}, nil)
}
