package store

import (
	"context"
	"fmt"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"gorm.io/gorm"
)

// CreateCategory stores a capitalized name; names are unique per owner only.
func (s *Store) CreateCategory(ctx context.Context, name, ownerID string) (*models.Category, error) {
	name, err := util.NormalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := models.Category{Name: name, CreatorID: ownerID}
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Category{}, "creator_id = ? AND name = ?", ownerID, name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category with this name: %w", errs.ErrConflict)
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// GetCategoryByUUID returns the category with its balance.
func (s *Store) GetCategoryByUUID(ctx context.Context, id string) (*CategoryBalance, error) {
	return categoryBalance(s.conn(ctx), "categories.uuid = ?", id)
}

// GetCategoriesByOwner lists the owner's categories with balances, by name.
func (s *Store) GetCategoriesByOwner(ctx context.Context, ownerID string) ([]CategoryBalance, error) {
	var categories []CategoryBalance
	err := categoriesWithBalance(s.conn(ctx)).
		Where("categories.creator_id = ?", ownerID).
		Order("categories.name").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames a category. The caller must already have checked
// ownership.
func (s *Store) UpdateCategory(ctx context.Context, id, name string) (*CategoryBalance, error) {
	name, err := util.NormalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	var updated *CategoryBalance
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("uuid = ?", id).Take(&category).Error; err != nil {
			return err
		}

		taken, err := exists(tx, &models.Category{},
			"creator_id = ? AND name = ? AND uuid <> ?", category.CreatorID, name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category with this name: %w", errs.ErrConflict)
		}

		if err := tx.Model(&category).Update("name", name).Error; err != nil {
			return err
		}

		updated, err = categoryBalance(tx, "categories.uuid = ?", id)
		return err
	})
	if err != nil {
		return nil, translate(err, "category")
	}
	return updated, nil
}

// DeleteCategory removes the category together with its records.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Record{}).Error; err != nil {
			return err
		}
		res := tx.Where("uuid = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "category")
}

func categoryBalance(db *gorm.DB, query string, args ...any) (*CategoryBalance, error) {
	var rows []CategoryBalance
	if err := categoriesWithBalance(db).Where(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("category: %w", errs.ErrNotFound)
	}
	return &rows[0], nil
}
