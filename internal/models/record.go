package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordType decides the sign of a record's stored amount.
type RecordType string

const (
	RecordIncome  RecordType = "income"
	RecordExpense RecordType = "expense"
)

func (t RecordType) Valid() bool {
	return t == RecordIncome || t == RecordExpense
}

// Signed applies the type's sign to a positive amount.
func (t RecordType) Signed(amount int64) int64 {
	if t == RecordExpense {
		return -amount
	}
	return amount
}

// Record is a single income or expense.
// Amount is signed and stored in cents: income > 0, expense < 0.
type Record struct {
	UUID       string    `gorm:"primaryKey;size:36"`
	Amount     int64     `gorm:"not null"`
	Note       string    `gorm:"size:255"`
	OccurredAt time.Time `gorm:"index;not null"`
	CreatorID  string    `gorm:"size:36;index;not null"`
	AccountID  string    `gorm:"size:36;index;not null"`
	CategoryID string    `gorm:"size:36;index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Creator  *User     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Account  *Account  `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:CASCADE"`
}

// Type derives income/expense back from the stored sign.
func (r *Record) Type() RecordType {
	if r.Amount < 0 {
		return RecordExpense
	}
	return RecordIncome
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	return nil
}
