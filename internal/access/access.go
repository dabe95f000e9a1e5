// Package access decides whether a user may see or change a resource.
//
// Accounts and categories report a foreign owner as errs.ErrForbidden.
// Records report it as errs.ErrNotFound so that their existence is not
// revealed.
package access

import (
	"fmt"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"
)

// CanReadAccount allows anyone to read a public account and only the owner
// to read a private one.
func CanReadAccount(user *models.User, account *models.Account) error {
	if account.IsPrivate && !owns(user, account.CreatorID) {
		return fmt.Errorf("account is private: %w", errs.ErrForbidden)
	}
	return nil
}

func CanModifyAccount(user *models.User, account *models.Account) error {
	if !owns(user, account.CreatorID) {
		return fmt.Errorf("account belongs to another user: %w", errs.ErrForbidden)
	}
	return nil
}

// CanAccessCategory guards read, update and delete alike.
func CanAccessCategory(user *models.User, category *models.Category) error {
	if !owns(user, category.CreatorID) {
		return fmt.Errorf("category belongs to another user: %w", errs.ErrForbidden)
	}
	return nil
}

func CanAccessRecord(user *models.User, record *models.Record) error {
	if !owns(user, record.CreatorID) {
		return fmt.Errorf("record: %w", errs.ErrNotFound)
	}
	return nil
}

func owns(user *models.User, creatorID string) bool {
	return user != nil && user.UUID != "" && user.UUID == creatorID
}
