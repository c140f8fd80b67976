package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookpos-backend/config"
)

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, status int, message string) {
	if status >= 500 {
		config.GetLogger().Error(message,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// CompanyID reads the tenant id placed in the context by AuthMiddleware.
func CompanyID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, CtxCompanyID)
}

// UserID reads the caller id placed in the context by AuthMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, CtxUserID)
}

func Role(c *gin.Context) string {
	v, ok := c.Get(CtxRole)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func uuidFromContext(c *gin.Context, key string) (uuid.UUID, bool) {
	v, exists := c.Get(key)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GenerateRandomString returns n upper-case hex characters.
func GenerateRandomString(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
