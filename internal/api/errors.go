package api

import (
	"net/http"
	"strconv"

	"projecthub/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

var errBadJSON = apperr.InvalidInput("Invalid JSON body")

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes {"msg": ...} with the status matching err and aborts.
// Unclassified errors are logged and reported as a bare 500.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"msg": apperr.MessageOf(err)})
}

// callerID reads the id AuthMiddleware stored on the context, answering 401
// when it is missing.
func callerID(c *gin.Context, logger *zap.Logger) (int, bool) {
	v, ok := c.Get(ContextUserID)
	if id, isInt := v.(int); ok && isInt {
		return id, true
	}
	RespondError(c, logger, apperr.Unauthorized("Missing Authorization Header"))
	return 0, false
}

// pathID parses an integer path parameter. A non-numeric id matches no route.
func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("Not found")
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errBadJSON
	}
	return nil
}
