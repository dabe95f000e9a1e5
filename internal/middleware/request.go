package middleware

import (
	"log/slog"
	"time"

	"wallet-api/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			logger.FieldComponent, "http",
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldLatency, time.Since(start).Milliseconds(),
			logger.FieldClientIP, c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, logger.FieldUserID, user.UUID)
		}
		log.Log(c.Request.Context(), level, "request", attrs...)
	}
}
