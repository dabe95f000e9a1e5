package store

import (
	"context"
	"fmt"
	"time"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// RecordInput carries a validated request. Amount is positive, in cents;
// the sign comes from Type.
type RecordInput struct {
	Type       models.RecordType
	Amount     int64
	AccountID  string
	CategoryID string
	Note       string
	OccurredAt time.Time
}

// RecordFilter narrows ListRecords and Summary. Zero values match everything.
// From and To are instants; they are compared in UTC like stored records.
type RecordFilter struct {
	AccountID  string
	CategoryID string
	Type       models.RecordType
	From       time.Time
	To         time.Time

	Page     int
	PageSize int
}

// Normalize clamps paging to sane bounds.
func (f *RecordFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// scope qualifies columns so it also applies when records is joined.
func (f RecordFilter) scope(db *gorm.DB) *gorm.DB {
	if f.AccountID != "" {
		db = db.Where("records.account_id = ?", f.AccountID)
	}
	if f.CategoryID != "" {
		db = db.Where("records.category_id = ?", f.CategoryID)
	}
	switch f.Type {
	case models.RecordIncome:
		db = db.Where("records.amount > 0")
	case models.RecordExpense:
		db = db.Where("records.amount < 0")
	}
	if !f.From.IsZero() {
		db = db.Where("records.occurred_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		db = db.Where("records.occurred_at < ?", f.To.UTC())
	}
	return db
}

// CreateRecord stores +Amount for income and -Amount for expense. The
// account and category must exist and belong to ownerID, otherwise
// errs.ErrNotFound.
func (s *Store) CreateRecord(ctx context.Context, in RecordInput, ownerID string) (*models.Record, error) {
	if !in.Type.Valid() {
		return nil, errs.Invalid("type", "must be income or expense")
	}
	if in.Amount <= 0 {
		return nil, errs.Invalid("amount", "must be positive")
	}
	if len(in.Note) > 255 {
		return nil, errs.Invalid("note", "must be at most 255 bytes")
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}
	in.OccurredAt = in.OccurredAt.UTC()

	record := models.Record{
		Amount:     in.Type.Signed(in.Amount),
		Note:       in.Note,
		OccurredAt: in.OccurredAt,
		CreatorID:  ownerID,
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Account{}, "uuid = ? AND creator_id = ?", in.AccountID, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("account: %w", errs.ErrNotFound)
		}

		ok, err = exists(tx, &models.Category{}, "uuid = ? AND creator_id = ?", in.CategoryID, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category: %w", errs.ErrNotFound)
		}

		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, translate(err, "record")
	}
	return &record, nil
}

// GetRecordByUUID is an exact-match lookup with no ownership check.
func (s *Store) GetRecordByUUID(ctx context.Context, id string) (*models.Record, error) {
	var record models.Record
	if err := s.conn(ctx).Where("uuid = ?", id).Take(&record).Error; err != nil {
		return nil, translate(err, "record")
	}
	return &record, nil
}

// DeleteRecord removes the record only if ownerID created it. A foreign
// record is reported exactly like a missing one. The deleted row is returned.
func (s *Store) DeleteRecord(ctx context.Context, id, ownerID string) (*models.Record, error) {
	var record models.Record
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ? AND creator_id = ?", id, ownerID).Take(&record).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, translate(err, "record")
	}
	return &record, nil
}

// ListRecords returns one page of the owner's records, newest first, and the
// total number of matches.
func (s *Store) ListRecords(ctx context.Context, ownerID string, f RecordFilter) ([]models.Record, int64, error) {
	f.Normalize()

	base := s.conn(ctx).Model(&models.Record{}).
		Where("creator_id = ?", ownerID).
		Scopes(f.scope)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	var records []models.Record
	err := base.Session(&gorm.Session{}).
		Order("occurred_at DESC, created_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query records: %w", err)
	}
	return records, total, nil
}

// RecordRow is a record flattened with its account and category names.
type RecordRow struct {
	UUID         string
	OccurredAt   time.Time
	Amount       int64
	AccountName  string
	CategoryName string
	Note         string
}

// RecordRows returns every record of the owner matching f, oldest first,
// for export. Paging fields are ignored.
func (s *Store) RecordRows(ctx context.Context, ownerID string, f RecordFilter) ([]RecordRow, error) {
	var rows []RecordRow
	err := s.conn(ctx).Table("records").
		Select(`records.uuid AS uuid, records.occurred_at AS occurred_at, records.amount AS amount,
			accounts.name AS account_name, categories.name AS category_name, records.note AS note`).
		Joins("JOIN accounts ON accounts.uuid = records.account_id").
		Joins("JOIN categories ON categories.uuid = records.category_id").
		Where("records.creator_id = ?", ownerID).
		Scopes(f.scope).
		Order("records.occurred_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query record rows: %w", err)
	}
	return rows, nil
}
