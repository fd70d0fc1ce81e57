package handlers

import (
	"errors"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sendServiceError maps service and repository errors onto the API envelope.
func sendServiceError(c *gin.Context, err error, resource, action string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		api.SendNotFound(c, resource)
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrEmailRequired):
		api.SendValidationError(c, "Validation failed", err.Error())
	default:
		logger.Error().
			Err(err).
			Str("request_id", api.RequestID(c)).
			Str("resource", resource).
			Msg(action + " failed")
		api.SendInternalError(c, "Failed to "+action)
	}
}

// parseID reads the :id path parameter, answering 400 when it is not a UUID.
func parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid "+resource+" ID", "ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
