package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the user-facing notification endpoints on an
// authenticated route group.
func RegisterRoutes(protected *gin.RouterGroup, handler *Handler) {
	group := protected.Group("/notifications")
	{
		group.GET("", handler.GetNotifications)
		group.GET("/count", handler.GetCount)
		group.POST("/mark-read", handler.MarkAsRead)
		group.POST("/mark-all-read", handler.MarkAllAsRead)
		group.DELETE("/:id", handler.DeleteNotification)
	}
}
