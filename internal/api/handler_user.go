package api

import (
	"net/http"

	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the admin-only user endpoints. The router guards it with
// RequirePermission.
type UserHandler struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserHandler(users *repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.ListAll())
}

// SetRole handles PUT /users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if _, err := h.users.SetRole(id, req.Role); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User role updated"})
}
