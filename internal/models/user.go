package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated identity. Username and email are stored
// lowercased.
type User struct {
	UUID           string `gorm:"primaryKey;size:36"`
	Username       string `gorm:"size:20;uniqueIndex;not null"`
	Email          string `gorm:"size:320;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`

	IsActive    bool `gorm:"not null"`
	IsVerified  bool `gorm:"not null"`
	IsSuperuser bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	return nil
}
