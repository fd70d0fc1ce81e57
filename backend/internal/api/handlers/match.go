package handlers

import (
	"context"
	"net/http"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MatchServicer interface {
	GetMatches(ctx context.Context, id uuid.UUID, opts service.MatchOptions) (*service.MatchListing, error)
	ScorePair(lost, found matching.Item) matching.MatchResult
}

// MatchHandler exposes match ranking and direct pair scoring
type MatchHandler struct {
	matches   MatchServicer
	validator *validator.Validate
}

func NewMatchHandler(matches MatchServicer) *MatchHandler {
	return &MatchHandler{
		matches:   matches,
		validator: validator.New(),
	}
}

type MatchesQuery struct {
	Threshold *int `form:"threshold" validate:"omitempty,min=0,max=100"`
}

type MatchListingResponse struct {
	Target  ItemResponse           `json:"target"`
	Matches []matching.MatchResult `json:"matches"`
}

// MatchItemRequest is an inline report for direct scoring. An unreadable
// last_seen_time is treated as absent.
type MatchItemRequest struct {
	ID           string `json:"id" validate:"max=100"`
	Category     string `json:"category" validate:"omitempty,oneof=Lost Found lost found"`
	Title        string `json:"title" validate:"max=200"`
	Description  string `json:"description" validate:"max=2000"`
	Location     string `json:"location" validate:"max=255"`
	LastSeenTime string `json:"last_seen_time,omitempty" example:"2024-04-10T18:00:00Z"`
}

func (r MatchItemRequest) toItem() matching.Item {
	return matching.Item{
		ID:           r.ID,
		Category:     matching.Category(r.Category),
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		LastSeenTime: matching.ParseTimestamp(r.LastSeenTime),
	}
}

type ScorePairRequest struct {
	Lost  *MatchItemRequest `json:"lost" validate:"required"`
	Found *MatchItemRequest `json:"found" validate:"required"`
}

// GetMatches ranks candidates for an item
// @Summary Get matches for an item
// @Tags matches
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param threshold query int false "Minimum score" minimum(0) maximum(100)
// @Success 200 {object} api.APIResponse{data=MatchListingResponse,meta=api.Meta}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /items/{id}/matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	id, ok := parseID(c, "item")
	if !ok {
		return
	}

	var query MatchesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	listing, err := h.matches.GetMatches(c.Request.Context(), id, service.MatchOptions{Threshold: query.Threshold})
	if err != nil {
		sendServiceError(c, err, "Item", "compute matches")
		return
	}

	cached := listing.Cached
	api.SendSuccess(c, http.StatusOK, MatchListingResponse{
		Target:  itemToResponse(&listing.Target),
		Matches: listing.Matches,
	}, &api.Meta{Cached: &cached})
}

// ScorePair scores two inline reports against each other
// @Summary Score a lost/found pair
// @Tags matches
// @Accept json
// @Produce json
// @Param body body ScorePairRequest true "Lost and found reports"
// @Success 200 {object} api.APIResponse{data=matching.MatchResult}
// @Router /matches/score [post]
func (h *MatchHandler) ScorePair(c *gin.Context) {
	var req ScorePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	result := h.matches.ScorePair(req.Lost.toItem(), req.Found.toItem())
	api.SendSuccess(c, http.StatusOK, result, nil)
}
