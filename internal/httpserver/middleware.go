package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"projecthub/internal/api"
	"projecthub/internal/apperr"
	"projecthub/internal/auth"
	"projecthub/internal/model"
	"projecthub/pkg/logger"
	"projecthub/pkg/metrics"
	"projecthub/pkg/rbac"
	"projecthub/pkg/trace"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TraceMiddleware reuses the caller's X-Trace-ID or mints one, and stores it on
// the request context and the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName)
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

func RequestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.WithTrace(c.Request.Context(), l).Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// MetricsMiddleware observes request latency labelled by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// CORSMiddleware allows any origin and answers preflight requests directly.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Header("Access-Control-Allow-Methods", "GET,PUT,POST,DELETE,OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func bearerMiddleware(tokens *auth.TokenManager, refresh bool, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractToken(c.Request)
		if token == "" {
			api.RespondError(c, l, apperr.Unauthorized("Missing Authorization Header"))
			return
		}

		userID, err := tokens.Verify(token, refresh)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired"
			}
			api.RespondError(c, l, apperr.Unauthorized(msg))
			return
		}

		c.Set(api.ContextUserID, userID)
		c.Next()
	}
}

// AuthMiddleware requires a valid access token.
func AuthMiddleware(tokens *auth.TokenManager, l *zap.Logger) gin.HandlerFunc {
	return bearerMiddleware(tokens, false, l)
}

// RefreshMiddleware requires a valid refresh token.
func RefreshMiddleware(tokens *auth.TokenManager, l *zap.Logger) gin.HandlerFunc {
	return bearerMiddleware(tokens, true, l)
}

// RoleLookup resolves the caller's current role; *repository.UserRepository
// implements it.
type RoleLookup interface {
	Get(id int) (*model.User, error)
}

// RequirePermission checks the caller's role at request time, so a role change
// takes effect without a new token.
func RequirePermission(users RoleLookup, permission string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(api.ContextUserID)
		userID, ok := v.(int)
		if !ok {
			api.RespondError(c, l, apperr.Unauthorized("Missing Authorization Header"))
			return
		}

		role := ""
		if u, err := users.Get(userID); err == nil {
			role = u.Role
		}
		if err := rbac.CheckPermission(userID, role, permission); err != nil {
			logger.WithTrace(c.Request.Context(), l).Info("Permission denied",
				zap.Int("user_id", userID),
				zap.String("permission", permission),
			)
			api.RespondError(c, l, apperr.Forbidden("Admin privilege required"))
			return
		}
		c.Next()
	}
}
