package scheduler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartgrocery/internal/pkg/response"
)

// Handler exposes manual trigger endpoints for the scheduled jobs, useful
// in development and for operational reruns.
type Handler struct {
	scheduler *Scheduler
}

func NewHandler(s *Scheduler) *Handler {
	return &Handler{scheduler: s}
}

func (h *Handler) TriggerExpiringCheck(c *gin.Context) {
	h.scheduler.CheckExpiringItems()
	response.Success(c, http.StatusOK, gin.H{"status": "expiring items check completed"})
}

func (h *Handler) TriggerCriticalCheck(c *gin.Context) {
	h.scheduler.CheckCriticalExpiringItems()
	response.Success(c, http.StatusOK, gin.H{"status": "critical items check completed"})
}

func (h *Handler) TriggerExpiredCheck(c *gin.Context) {
	h.scheduler.CheckExpiredItems()
	response.Success(c, http.StatusOK, gin.H{"status": "expired items check completed"})
}

// RegisterRoutes mounts the trigger endpoints under the notifications
// group on an authenticated router.
func RegisterRoutes(protected *gin.RouterGroup, handler *Handler) {
	jobs := protected.Group("/notifications/jobs")
	{
		jobs.POST("/check-expiring", handler.TriggerExpiringCheck)
		jobs.POST("/check-critical", handler.TriggerCriticalCheck)
		jobs.POST("/check-expired", handler.TriggerExpiredCheck)
	}
}
