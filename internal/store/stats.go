package store

import (
	"context"
	"sort"
	"time"
)

// Totals are in cents; Expense is positive.
type Totals struct {
	Income  int64
	Expense int64
}

func (t Totals) Balance() int64 { return t.Income - t.Expense }

func (t *Totals) add(amount int64) {
	if amount < 0 {
		t.Expense -= amount
	} else {
		t.Income += amount
	}
}

type DayStat struct {
	Date string // YYYY-MM-DD
	Totals
}

type CategoryStat struct {
	Category string
	Totals
}

// MonthStats breaks one month down by day and by category.
type MonthStats struct {
	Month      string // YYYY-MM
	Days       []DayStat
	Categories []CategoryStat
	Total      Totals
}

// MonthlyStats aggregates the owner's records in the UTC calendar month named
// by month's year and month. Days are ascending; categories are sorted by name.
func (s *Store) MonthlyStats(ctx context.Context, ownerID string, month time.Time) (*MonthStats, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.RecordRows(ctx, ownerID, RecordFilter{From: start, To: start.AddDate(0, 1, 0)})
	if err != nil {
		return nil, err
	}

	stats := &MonthStats{Month: start.Format("2006-01")}
	days := map[string]*Totals{}
	cats := map[string]*Totals{}

	for _, r := range rows {
		day := r.OccurredAt.UTC().Format("2006-01-02")
		if days[day] == nil {
			days[day] = &Totals{}
		}
		days[day].add(r.Amount)

		if cats[r.CategoryName] == nil {
			cats[r.CategoryName] = &Totals{}
		}
		cats[r.CategoryName].add(r.Amount)

		stats.Total.add(r.Amount)
	}

	for d, t := range days {
		stats.Days = append(stats.Days, DayStat{Date: d, Totals: *t})
	}
	sort.Slice(stats.Days, func(i, j int) bool { return stats.Days[i].Date < stats.Days[j].Date })

	for name, t := range cats {
		stats.Categories = append(stats.Categories, CategoryStat{Category: name, Totals: *t})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Category < stats.Categories[j].Category
	})

	return stats, nil
}
