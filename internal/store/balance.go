package store

import (
	"context"

	"wallet-api/internal/models"

	"gorm.io/gorm"
)

// AccountBalance is an account with the sum of its records' signed amounts.
type AccountBalance struct {
	models.Account
	Balance int64
}

// CategoryBalance is a category with the sum of its records' signed amounts.
type CategoryBalance struct {
	models.Category
	Balance int64
}

// Balances are recomputed on every read: LEFT JOIN so an entity without
// records still appears, COALESCE so its balance reads 0.

func accountsWithBalance(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Account{}).
		Select("accounts.*, COALESCE(SUM(records.amount), 0) AS balance").
		Joins("LEFT JOIN records ON records.account_id = accounts.uuid").
		Group("accounts.uuid")
}

func categoriesWithBalance(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Category{}).
		Select("categories.*, COALESCE(SUM(records.amount), 0) AS balance").
		Joins("LEFT JOIN records ON records.category_id = categories.uuid").
		Group("categories.uuid")
}

// Summary totals a set of records. Expense is reported as a positive number.
type Summary struct {
	Income  int64
	Expense int64
	Balance int64
}

// Summary aggregates the owner's records matching f; paging fields are ignored.
func (s *Store) Summary(ctx context.Context, ownerID string, f RecordFilter) (Summary, error) {
	var sum Summary
	err := s.conn(ctx).Model(&models.Record{}).
		Select(`COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(amount), 0) AS balance`).
		Where("creator_id = ?", ownerID).
		Scopes(f.scope).
		Scan(&sum).Error
	return sum, err
}
