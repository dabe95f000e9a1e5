package store

import (
	"context"
	"fmt"
	"strings"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"gorm.io/gorm"
)

// CreateAccount rejects a name already used by any user.
func (s *Store) CreateAccount(ctx context.Context, name string, isPrivate bool, ownerID string) (*models.Account, error) {
	name, err := util.NormalizeAccountName(name)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		Name:      name,
		CreatorID: ownerID,
		IsPrivate: isPrivate,
	}

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Account{}, "name = ?", name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("account with this name: %w", errs.ErrConflict)
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

// GetAccountByName returns the account with its balance and creator.
func (s *Store) GetAccountByName(ctx context.Context, name string) (*AccountBalance, error) {
	db := s.conn(ctx)
	account, err := accountBalance(db, "accounts.name = ?", strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	var creator models.User
	if err := db.Where("uuid = ?", account.CreatorID).Take(&creator).Error; err != nil {
		return nil, translate(err, "account creator")
	}
	account.Creator = &creator
	return account, nil
}

// GetAccountByUUID returns the bare account, without balance.
func (s *Store) GetAccountByUUID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.conn(ctx).Where("uuid = ?", id).Take(&account).Error; err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

// GetAccountsByOwner lists the owner's accounts with balances, in no
// particular order.
func (s *Store) GetAccountsByOwner(ctx context.Context, ownerID string) ([]AccountBalance, error) {
	var accounts []AccountBalance
	err := accountsWithBalance(s.conn(ctx)).
		Where("accounts.creator_id = ?", ownerID).
		Scan(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount renames the account and sets its privacy. The caller must
// already have checked ownership.
func (s *Store) UpdateAccount(ctx context.Context, id, name string, isPrivate bool) (*AccountBalance, error) {
	name, err := util.NormalizeAccountName(name)
	if err != nil {
		return nil, err
	}

	var updated *AccountBalance
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("uuid = ?", id).Take(&account).Error; err != nil {
			return err
		}

		taken, err := exists(tx, &models.Account{}, "name = ? AND uuid <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("account with this name: %w", errs.ErrConflict)
		}

		if err := tx.Model(&account).Updates(map[string]any{
			"name":       name,
			"is_private": isPrivate,
		}).Error; err != nil {
			return err
		}

		updated, err = accountBalance(tx, "accounts.uuid = ?", id)
		return err
	})
	if err != nil {
		return nil, translate(err, "account")
	}
	return updated, nil
}

// DeleteAccount removes the account together with its records.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&models.Record{}).Error; err != nil {
			return err
		}
		res := tx.Where("uuid = ?", id).Delete(&models.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "account")
}

func accountBalance(db *gorm.DB, query string, args ...any) (*AccountBalance, error) {
	var rows []AccountBalance
	if err := accountsWithBalance(db).Where(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("account: %w", errs.ErrNotFound)
	}
	return &rows[0], nil
}
