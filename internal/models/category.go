package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups records. Names are unique per creator.
type Category struct {
	UUID      string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:30;not null;uniqueIndex:idx_categories_creator_name"`
	CreatorID string `gorm:"size:36;not null;uniqueIndex:idx_categories_creator_name"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Creator *User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}
