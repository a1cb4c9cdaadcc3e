package httpserver

import (
	"context"
	"net/http"
	"time"

	"projecthub/internal/api"
	"projecthub/internal/auth"
	"projecthub/internal/repository"
	"projecthub/pkg/rbac"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessCheck is one backing service probed by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handlers struct {
	Auth      *api.AuthHandler
	Users     *api.UserHandler
	Projects  *api.ProjectHandler
	Tasks     *api.TaskHandler
	Comments  *api.CommentHandler
	Dashboard *api.DashboardHandler
	Assistant *api.AssistantHandler
}

func NewRouter(
	h Handlers,
	tokens *auth.TokenManager,
	users *repository.UserRepository,
	checks []ReadinessCheck,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		TraceMiddleware(),
		RequestLogger(logger),
		MetricsMiddleware(),
		CORSMiddleware(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the ProjectHub API!"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": check.Name + "_not_ready",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/refresh", RefreshMiddleware(tokens, logger), h.Auth.Refresh)

	// Protected
	authed := r.Group("/")
	authed.Use(AuthMiddleware(tokens, logger))
	{
		authed.GET("/users", RequirePermission(users, rbac.PermissionListUsers, logger), h.Users.List)
		authed.PUT("/users/:id/role", RequirePermission(users, rbac.PermissionManageRoles, logger), h.Users.SetRole)

		authed.GET("/projects", h.Projects.List)
		authed.POST("/projects", h.Projects.Create)
		authed.GET("/projects/:id", h.Projects.Get)
		authed.PUT("/projects/:id", h.Projects.Update)
		authed.DELETE("/projects/:id", h.Projects.Delete)

		authed.GET("/projects/:id/tasks", h.Tasks.List)
		authed.POST("/projects/:id/tasks", h.Tasks.Create)
		authed.PUT("/tasks/:id", h.Tasks.Update)
		authed.DELETE("/tasks/:id", h.Tasks.Delete)

		authed.GET("/tasks/:id/comments", h.Comments.List)
		authed.POST("/tasks/:id/comments", h.Comments.Create)
		authed.PUT("/comments/:id", h.Comments.Update)
		authed.DELETE("/comments/:id", h.Comments.Delete)

		authed.GET("/dashboard/stats", h.Dashboard.Stats)
		authed.GET("/notifications", h.Dashboard.Notifications)

		authed.POST("/zeno", h.Assistant.Zeno)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
	})

	return r
}
