package handler

import (
	"net/http"
	"time"

	"wallet-api/internal/errs"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

type totalsResp struct {
	IncomeCent  int64  `json:"income_cent"`
	ExpenseCent int64  `json:"expense_cent"`
	BalanceCent int64  `json:"balance_cent"`
	Income      string `json:"income"`
	Expense     string `json:"expense"`
	Balance     string `json:"balance"`
}

func toTotalsResp(t store.Totals) totalsResp {
	return totalsResp{
		IncomeCent:  t.Income,
		ExpenseCent: t.Expense,
		BalanceCent: t.Balance(),
		Income:      util.FormatCents(t.Income),
		Expense:     util.FormatCents(t.Expense),
		Balance:     util.FormatCents(t.Balance()),
	}
}

type dayStatResp struct {
	Date string `json:"date"`
	totalsResp
}

type categoryStatResp struct {
	Category string `json:"category"`
	totalsResp
}

// MonthlyStats serves ?month=YYYY-MM, defaulting to the current month.
func (h *RecordHandler) MonthlyStats(c *gin.Context) {
	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().UTC().Format("2006-01")
	}
	month, err := time.ParseInLocation("2006-01", monthStr, time.UTC)
	if err != nil {
		util.Fail(c, errs.Invalid("month", "must be YYYY-MM"))
		return
	}

	stats, err := h.Store.MonthlyStats(c.Request.Context(), middleware.CurrentUser(c).UUID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}

	days := make([]dayStatResp, 0, len(stats.Days))
	for _, d := range stats.Days {
		days = append(days, dayStatResp{Date: d.Date, totalsResp: toTotalsResp(d.Totals)})
	}
	cats := make([]categoryStatResp, 0, len(stats.Categories))
	for _, cs := range stats.Categories {
		cats = append(cats, categoryStatResp{Category: cs.Category, totalsResp: toTotalsResp(cs.Totals)})
	}

	util.Success(c, http.StatusOK, gin.H{
		"month":       stats.Month,
		"daily":       days,
		"by_category": cats,
		"total":       toTotalsResp(stats.Total),
	})
}
