package handlers

import (
	"context"
	"net/http"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type NotificationServicer interface {
	ListNotifications(ctx context.Context, email string, limit, offset int32) ([]repository.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, email string) (int64, error)
}

type NotificationHandler struct {
	notifications NotificationServicer
	validator     *validator.Validate
}

func NewNotificationHandler(notifications NotificationServicer) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		validator:     validator.New(),
	}
}

type ListNotificationsQuery struct {
	Email string `form:"email" validate:"omitempty,email"`
	Page  int    `form:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type MarkAllQuery struct {
	Email string `form:"email" validate:"omitempty,email"`
}

// ListNotifications lists notifications newest first with the unread count in meta
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param email query string false "Recipient email"
// @Success 200 {object} api.APIResponse{data=[]repository.Notification,meta=api.Meta}
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var query ListNotificationsQuery
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
		query.Limit = 50
	}

	list, unread, err := h.notifications.ListNotifications(
		c.Request.Context(),
		query.Email,
		int32(query.Limit),
		int32((query.Page-1)*query.Limit),
	)
	if err != nil {
		sendServiceError(c, err, "Notifications", "list notifications")
		return
	}

	api.SendSuccess(c, http.StatusOK, list, &api.Meta{UnreadCount: &unread})
}

// MarkAsRead flags one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} api.APIResponse
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := parseID(c, "notification")
	if !ok {
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id); err != nil {
		sendServiceError(c, err, "Notification", "mark notification read")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"id": id.String(), "is_read": true}, nil)
}

// MarkAllAsRead flags every visible notification as read
// @Summary Mark all notifications as read
// @Tags notifications
// @Param email query string false "Recipient email"
// @Success 200 {object} api.APIResponse
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	var query MarkAllQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	updated, err := h.notifications.MarkAllAsRead(c.Request.Context(), query.Email)
	if err != nil {
		sendServiceError(c, err, "Notifications", "mark notifications read")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"updated": updated}, nil)
}
