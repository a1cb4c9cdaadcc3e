package api

import (
	"net/http"

	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *repository.CommentRepository
	logger   *zap.Logger
}

func NewCommentHandler(comments *repository.CommentRepository, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Content string `json:"content"`
}

// List handles GET /tasks/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	comments, err := h.comments.ListForTask(taskID, userID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create handles POST /tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	comment, err := h.comments.Create(taskID, userID, req.Content)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	comment, err := h.comments.Update(id, userID, req.Content)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if err := h.comments.Delete(id, userID); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Comment deleted"})
}
