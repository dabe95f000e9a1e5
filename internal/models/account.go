package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a wallet. Names are unique across all users.
type Account struct {
	UUID      string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:30;uniqueIndex;not null"`
	CreatorID string `gorm:"size:36;index;not null"`
	IsPrivate bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Creator *User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	return nil
}
