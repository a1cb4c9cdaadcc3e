package api

import (
	"net/http"

	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler serves the read-only summary endpoints.
type DashboardHandler struct {
	dashboard     *repository.Dashboard
	notifications *repository.NotificationLog
	logger        *zap.Logger
}

func NewDashboardHandler(dashboard *repository.Dashboard, notifications *repository.NotificationLog, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard:     dashboard,
		notifications: notifications,
		logger:        logger,
	}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.dashboard.StatsFor(userID))
}

// Notifications handles GET /notifications. The feed is global, not per user.
func (h *DashboardHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifications.Recent())
}
