package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"wallet-api/internal/logger"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the user's records as CSV or XLSX. Both accept the
// same query filters as GET /records.
type ExportHandler struct {
	Store *store.Store
}

func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{Store: s}
}

var exportHeaders = []string{"Date", "Type", "Account", "Category", "Amount", "Note"}

func exportRow(r store.RecordRow) []string {
	typ := "income"
	if r.Amount < 0 {
		typ = "expense"
	}
	return []string{
		r.OccurredAt.Format("2006-01-02"),
		typ,
		r.AccountName,
		r.CategoryName,
		util.FormatCents(r.Amount),
		r.Note,
	}
}

func (h *ExportHandler) rows(c *gin.Context) ([]store.RecordRow, bool) {
	filter, err := recordFilterFromQuery(c)
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	rows, err := h.Store.RecordRows(c.Request.Context(), middleware.CurrentUser(c).UUID, filter)
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	return rows, true
}

func attachment(c *gin.Context, ext string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"records_%s.%s\"",
		time.Now().Format("20060102"), ext))
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	attachment(c, "csv")
	c.Status(http.StatusOK)

	if err := writeCSV(c.Writer, rows); err != nil {
		exportFailed(c, "csv", err)
	}
}

func writeCSV(w io.Writer, rows []store.RecordRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(exportRow(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportFailed logs a write error after the headers went out; the status can
// no longer change.
func exportFailed(c *gin.Context, format string, err error) {
	slog.ErrorContext(c.Request.Context(), "export write failed",
		"format", format,
		logger.FieldError, err)
	c.Abort()
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Records"
	index, err := f.NewSheet(sheet)
	if err != nil {
		util.Fail(c, fmt.Errorf("new sheet: %w", err))
		return
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		util.Fail(c, fmt.Errorf("delete default sheet: %w", err))
		return
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		util.Fail(c, fmt.Errorf("write header: %w", err))
		return
	}
	for i, r := range rows {
		values := exportRow(r)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		// amount as a number so spreadsheets can sum it
		row[4] = float64(r.Amount) / 100
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			util.Fail(c, fmt.Errorf("cell name: %w", err))
			return
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			util.Fail(c, fmt.Errorf("write row: %w", err))
			return
		}
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 12},
		{"B", "B", 10},
		{"C", "D", 18},
		{"E", "E", 12},
		{"F", "F", 30},
	} {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			util.Fail(c, fmt.Errorf("set column width: %w", err))
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(c, "xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		exportFailed(c, "xlsx", err)
	}
}
