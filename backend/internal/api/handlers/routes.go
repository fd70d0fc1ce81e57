package handlers

import "github.com/gin-gonic/gin"

// Handlers groups everything mounted under /api/v1
type Handlers struct {
	Items         *ItemHandler
	Matches       *MatchHandler
	Notifications *NotificationHandler
}

// RegisterRoutes mounts the API on rg. /items/mine is registered before
// /items/:id so the literal segment wins.
func RegisterRoutes(rg *gin.RouterGroup, h Handlers) {
	items := rg.Group("/items")
	{
		items.POST("", h.Items.CreateItem)
		items.GET("", h.Items.ListItems)
		items.GET("/mine", h.Items.ListMyItems)
		items.GET("/:id", h.Items.GetItem)
		items.PUT("/:id", h.Items.UpdateItem)
		items.DELETE("/:id", h.Items.DeleteItem)
		items.GET("/:id/matches", h.Matches.GetMatches)
	}

	rg.POST("/matches/score", h.Matches.ScorePair)
	rg.POST("/demo/seed", h.Items.SeedDemoItems)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.Notifications.ListNotifications)
		notifications.PATCH("/:id/read", h.Notifications.MarkAsRead)
		notifications.POST("/read-all", h.Notifications.MarkAllAsRead)
	}
}
