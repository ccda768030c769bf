package middleware

import (
	"time"

	"nextchapter-be/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logging tags each request with a request id and logs it in structured JSON.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(
			logger.WithRequestID(c.Request.Context(), reqID),
		)
		c.Header("X-Request-ID", reqID)

		c.Next()

		userID, _ := UserID(c)

		logger.L().Info("HTTP Request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.Uint("user_id", userID),
		)
	}
}
