package handler

import (
	"log/slog"
	"net/http"
	"time"

	"wallet-api/internal/errs"
	"wallet-api/internal/logger"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler lists the caller's audit trail with path and action decrypted.
type LogHandler struct {
	Store  *store.Store
	Cipher *util.FieldCipher
}

func NewLogHandler(s *store.Store, cipher *util.FieldCipher) *LogHandler {
	return &LogHandler{Store: s, Cipher: cipher}
}

type logResp struct {
	ID        uint      `json:"id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// open returns the ciphertext unchanged when it cannot be decrypted, e.g.
// after the key was rotated.
func (h *LogHandler) open(sealed string) string {
	plain, err := h.Cipher.Open(sealed)
	if err != nil {
		slog.Debug("audit log decrypt failed", logger.FieldError, err)
		return sealed
	}
	return plain
}

// ListLogs supports page, page_size and a start/end date range (YYYY-MM-DD).
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		util.Fail(c, err)
		return
	}
	size, err := queryInt(c, "page_size", store.DefaultPageSize)
	if err != nil {
		util.Fail(c, err)
		return
	}
	filter := store.LogFilter{Page: page, PageSize: size}

	if s := c.Query("start"); s != "" {
		if filter.From, err = time.ParseInLocation("2006-01-02", s, time.UTC); err != nil {
			util.Fail(c, errs.Invalid("start", "must be YYYY-MM-DD"))
			return
		}
	}
	if s := c.Query("end"); s != "" {
		end, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			util.Fail(c, errs.Invalid("end", "must be YYYY-MM-DD"))
			return
		}
		filter.To = end.AddDate(0, 0, 1)
	}
	filter.Normalize()

	logs, total, err := h.Store.ListAuditLogs(c.Request.Context(), middleware.CurrentUser(c).UUID, filter)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			Method:    l.Method,
			Path:      h.open(l.PathEnc),
			Action:    h.open(l.ActionEnc),
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  filter.Page,
		"size":  filter.PageSize,
	})
}
