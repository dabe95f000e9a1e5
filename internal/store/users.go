package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"gorm.io/gorm"
)

// CreateUser normalizes and validates the input, rejects a taken username or
// email with errs.ErrConflict, and stores a bcrypt hash of rawPassword.
func (s *Store) CreateUser(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	username, err := util.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	email, err = util.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(rawPassword); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(rawPassword, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
	}

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.User{}, "username = ?", username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("user with this username: %w", errs.ErrConflict)
		}

		taken, err = exists(tx, &models.User{}, "email = ?", email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("user with this email: %w", errs.ErrConflict)
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// GetUserByUsername returns nil, nil when no user matches.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

// GetUserByEmail returns nil, nil when no user matches.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByUUID returns nil, nil when no user matches.
func (s *Store) GetUserByUUID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "uuid = ?", id)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where(query, arg).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *Store) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}

	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("uuid = ?", id).Take(&user).Error; err != nil {
			return translate(err, "user")
		}
		if !util.CheckPassword(oldPassword, user.HashedPassword) {
			return errs.Invalid("old_password", "is incorrect")
		}

		hash, err := util.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return tx.Model(&user).Update("hashed_password", hash).Error
	})
}
