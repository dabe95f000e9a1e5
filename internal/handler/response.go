package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"wallet-api/internal/events"
	"wallet-api/internal/logger"
	"wallet-api/internal/models"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// ---------- projections ----------

type userResp struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResp(u *models.User) userResp {
	return userResp{UUID: u.UUID, Username: u.Username, Email: u.Email}
}

type accountResp struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	IsPrivate   bool      `json:"is_private"`
	Balance     string    `json:"balance"`
	BalanceCent int64     `json:"balance_cent"`
	Creator     *userResp `json:"creator,omitempty"`
}

func toAccountResp(a *store.AccountBalance) accountResp {
	resp := accountResp{
		UUID:        a.UUID,
		Name:        a.Name,
		IsPrivate:   a.IsPrivate,
		Balance:     util.FormatCents(a.Balance),
		BalanceCent: a.Balance,
	}
	if a.Creator != nil {
		creator := toUserResp(a.Creator)
		resp.Creator = &creator
	}
	return resp
}

type categoryResp struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Balance     string `json:"balance"`
	BalanceCent int64  `json:"balance_cent"`
}

func toCategoryResp(c *store.CategoryBalance) categoryResp {
	return categoryResp{
		UUID:        c.UUID,
		Name:        c.Name,
		Balance:     util.FormatCents(c.Balance),
		BalanceCent: c.Balance,
	}
}

type recordResp struct {
	UUID       string            `json:"uuid"`
	Type       models.RecordType `json:"type"`
	Amount     string            `json:"amount"`      // signed, two decimals
	AmountCent int64             `json:"amount_cent"` // signed
	AccountID  string            `json:"account_id"`
	CategoryID string            `json:"category_id"`
	Note       string            `json:"note"`
	OccurredAt time.Time         `json:"occurred_at"`
	CreatedAt  time.Time         `json:"created_at"`
}

func toRecordResp(r *models.Record) recordResp {
	return recordResp{
		UUID:       r.UUID,
		Type:       r.Type(),
		Amount:     util.FormatCents(r.Amount),
		AmountCent: r.Amount,
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		Note:       r.Note,
		OccurredAt: r.OccurredAt,
		CreatedAt:  r.CreatedAt,
	}
}

type summaryResp struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

func toSummaryResp(s store.Summary) summaryResp {
	return summaryResp{
		Income:  util.FormatCents(s.Income),
		Expense: util.FormatCents(s.Expense),
		Balance: util.FormatCents(s.Balance),
	}
}

type deletedResp struct {
	UUID    string `json:"uuid"`
	Deleted bool   `json:"deleted"`
}

// ---------- helpers ----------

// bind decodes the JSON body and reports malformed input as 400.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return false
	}
	return true
}

// publish never fails the request; a lost event is only logged.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := pub.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "publish event failed",
			"type", e.Type,
			"resource_id", e.ResourceID,
			logger.FieldError, err)
	}
}
