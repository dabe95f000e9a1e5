package store

import (
	"context"
	"fmt"
	"time"

	"wallet-api/internal/models"

	"gorm.io/gorm"
)

// LogFilter selects a page of one user's audit entries. To is exclusive.
type LogFilter struct {
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Normalize clamps paging to sane bounds.
func (f *LogFilter) Normalize() {
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

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := s.conn(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns entries newest first and the total match count.
func (s *Store) ListAuditLogs(ctx context.Context, userID string, f LogFilter) ([]models.AuditLog, int64, error) {
	f.Normalize()

	base := s.conn(ctx).Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if !f.From.IsZero() {
		base = base.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		base = base.Where("created_at < ?", f.To.UTC())
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	var logs []models.AuditLog
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query audit logs: %w", err)
	}
	return logs, total, nil
}
