package api

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects *repository.ProjectRepository
	logger   *zap.Logger
}

func NewProjectHandler(projects *repository.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// List handles GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.projects.ListOwnedBy(userID))
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	p, err := h.projects.Create(userID, req.Name, req.Description)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	p, err := h.projects.Get(id, userID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var patch model.ProjectPatch
	if err := bindJSON(c, &patch); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	p, err := h.projects.Update(id, userID, patch)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if err := h.projects.Delete(id, userID); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Project deleted"})
}
