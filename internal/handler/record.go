package handler

import (
	"net/http"
	"strconv"
	"time"

	"wallet-api/internal/access"
	"wallet-api/internal/errs"
	"wallet-api/internal/events"
	"wallet-api/internal/middleware"
	"wallet-api/internal/models"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecordHandler serves /records. A record owned by someone else is reported
// as not found.
type RecordHandler struct {
	Store  *store.Store
	Events events.Publisher
}

func NewRecordHandler(s *store.Store, pub events.Publisher) *RecordHandler {
	return &RecordHandler{Store: s, Events: pub}
}

// createRecordReq takes amount as a JSON number or string, e.g. 20 or "12.34".
type createRecordReq struct {
	Type       models.RecordType `json:"type" binding:"required"`
	Amount     decimal.Decimal   `json:"amount"`
	AccountID  string            `json:"account_id" binding:"required"`
	CategoryID string            `json:"category_id" binding:"required"`
	Note       string            `json:"note" binding:"max=255"`
	OccurredAt string            `json:"occurred_at"`
}

func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req createRecordReq
	if !bind(c, &req) {
		return
	}
	if !req.Type.Valid() {
		util.Fail(c, errs.Invalid("type", "must be income or expense"))
		return
	}
	cents, err := util.AmountToCents(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	occurredAt, err := util.ParseOccurredAt(req.OccurredAt, time.Now())
	if err != nil {
		util.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	record, err := h.Store.CreateRecord(ctx, store.RecordInput{
		Type:       req.Type,
		Amount:     cents,
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Note:       req.Note,
		OccurredAt: occurredAt,
	}, user.UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	publish(ctx, h.Events, events.Event{
		Type:       events.RecordCreated,
		UserID:     user.UUID,
		ResourceID: record.UUID,
		AccountID:  record.AccountID,
		Amount:     record.Amount,
	})
	util.Success(c, http.StatusCreated, toRecordResp(record))
}

func (h *RecordHandler) GetRecord(c *gin.Context) {
	record, err := h.Store.GetRecordByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := access.CanAccessRecord(middleware.CurrentUser(c), record); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toRecordResp(record))
}

func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	record, err := h.Store.DeleteRecord(ctx, c.Param("uuid"), user.UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	publish(ctx, h.Events, events.Event{
		Type:       events.RecordDeleted,
		UserID:     user.UUID,
		ResourceID: record.UUID,
		AccountID:  record.AccountID,
		Amount:     record.Amount,
	})
	util.Success(c, http.StatusOK, deletedResp{UUID: record.UUID, Deleted: true})
}

// ListRecords supports page, page_size, account_id, category_id, type and a
// from/to date range (YYYY-MM-DD, to inclusive).
func (h *RecordHandler) ListRecords(c *gin.Context) {
	filter, err := recordFilterFromQuery(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	filter.Normalize()

	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	records, total, err := h.Store.ListRecords(ctx, user.UUID, filter)
	if err != nil {
		util.Fail(c, err)
		return
	}
	summary, err := h.Store.Summary(ctx, user.UUID, filter)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]recordResp, 0, len(records))
	for i := range records {
		items = append(items, toRecordResp(&records[i]))
	}
	util.Success(c, http.StatusOK, gin.H{
		"items":   items,
		"total":   total,
		"page":    filter.Page,
		"size":    filter.PageSize,
		"summary": toSummaryResp(summary),
	})
}

func recordFilterFromQuery(c *gin.Context) (store.RecordFilter, error) {
	f := store.RecordFilter{
		AccountID:  c.Query("account_id"),
		CategoryID: c.Query("category_id"),
		Type:       models.RecordType(c.Query("type")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, errs.Invalid("type", "must be income or expense")
	}

	var err error
	if f.Page, err = queryInt(c, "page", 1); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(c, "page_size", store.DefaultPageSize); err != nil {
		return f, err
	}

	if s := c.Query("from"); s != "" {
		if f.From, err = time.ParseInLocation("2006-01-02", s, time.UTC); err != nil {
			return f, errs.Invalid("from", "must be YYYY-MM-DD")
		}
	}
	if s := c.Query("to"); s != "" {
		to, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return f, errs.Invalid("to", "must be YYYY-MM-DD")
		}
		f.To = to.AddDate(0, 0, 1)
	}
	return f, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Invalid(key, "must be an integer")
	}
	return n, nil
}
