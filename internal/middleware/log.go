package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"wallet-api/internal/logger"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// maxAuditBody is the largest request body copied into an audit entry.
const maxAuditBody = 2000

type AuditSink interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// AuditMiddleware records every request made by an authenticated user.
// Path and action (method, path and small bodies) are sealed with cipher.
func AuditMiddleware(sink AuditSink, cipher *util.FieldCipher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		user := CurrentUser(c)
		if user == nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			if body, ok := redactBody(bodyBytes); ok {
				action += " " + body
			}
		}

		encPath, err := cipher.Seal(path)
		if err != nil {
			slog.Warn("audit: seal path", logger.FieldError, err)
			return
		}
		encAction, err := cipher.Seal(action)
		if err != nil {
			slog.Warn("audit: seal action", logger.FieldError, err)
			return
		}

		entry := models.AuditLog{
			UserID:    user.UUID,
			Method:    c.Request.Method,
			PathEnc:   encPath,
			ActionEnc: encAction,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := sink.CreateAuditLog(context.WithoutCancel(c.Request.Context()), &entry); err != nil {
			slog.Warn("audit: write entry", logger.FieldError, err, logger.FieldUserID, user.UUID)
		}
	}
}

const redacted = "[REDACTED]"

// redactBody masks every JSON key mentioning a password, at any depth. A body
// that is not JSON is kept only if it says nothing about passwords.
func redactBody(body []byte) (string, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		if strings.Contains(strings.ToLower(string(body)), "password") {
			return "", false
		}
		return string(body), true
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if strings.Contains(strings.ToLower(k), "password") {
				t[k] = redacted
				continue
			}
			t[k] = redactValue(val)
		}
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
	}
	return v
}
