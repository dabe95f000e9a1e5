// Package store persists users and wallet entities through gorm. Every
// mutating operation runs its checks and writes in one transaction.
package store

import (
	"context"
	"errors"
	"fmt"

	"wallet-api/internal/errs"

	"gorm.io/gorm"
)

// Store is safe for concurrent use; it holds no state beyond the gorm pool.
type Store struct {
	db         *gorm.DB
	bcryptCost int
}

func New(db *gorm.DB, bcryptCost int) *Store {
	return &Store{db: db, bcryptCost: bcryptCost}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// exists reports whether any row of model matches the condition.
func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps driver-level failures onto the error taxonomy. Unique index
// violations surface as ErrConflict when a concurrent insert wins the race
// between pre-check and insert.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, errs.ErrConflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, errs.ErrNotFound)
	}
	return err
}
