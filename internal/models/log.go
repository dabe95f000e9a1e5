package models

import "time"

// AuditLog records authenticated requests. Path and action are stored
// encrypted (AES-GCM, base64).
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;index;not null"`
	Method    string    `gorm:"size:16"`
	PathEnc   string    `gorm:"size:1024"`
	ActionEnc string    `gorm:"size:4096"`
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}
