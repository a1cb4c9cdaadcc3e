package api

import (
	"net/http"

	"projecthub/internal/assistant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssistantHandler struct {
	assistant *assistant.Assistant
	logger    *zap.Logger
}

func NewAssistantHandler(a *assistant.Assistant, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: a, logger: logger}
}

// Zeno handles POST /zeno
func (h *AssistantHandler) Zeno(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": h.assistant.Respond(req.Message)})
}
