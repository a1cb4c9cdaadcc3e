package api

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	tasks  *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(tasks *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// List handles GET /projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	tasks, err := h.tasks.ListForProject(projectID, userID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Create handles POST /projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var req struct {
		Title      string `json:"title"`
		AssignedTo *int   `json:"assigned_to"`
	}
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	t, err := h.tasks.Create(projectID, userID, req.Title, req.AssignedTo)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Update handles PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var patch model.TaskPatch
	if err := bindJSON(c, &patch); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	t, err := h.tasks.Update(id, userID, patch)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if err := h.tasks.Delete(id, userID); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Task deleted"})
}
