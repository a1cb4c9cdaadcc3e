package api

import (
	"net/http"

	"projecthub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "User registered successfully"})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Refresh handles POST /auth/refresh; RefreshMiddleware has already verified
// the refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}

	token, err := h.authService.Refresh(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}
