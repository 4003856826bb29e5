package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
)

// costCategoryService handles cost category business logic.
type costCategoryService struct {
	db *gorm.DB
}

// NewCostCategoryService creates a new CostCategoryServicer.
func NewCostCategoryService(db *gorm.DB) CostCategoryServicer {
	return &costCategoryService{db: db}
}

// CreateCostCategory creates a category with a unique name.
func (s *costCategoryService) CreateCostCategory(
	name string,
	costType models.CostType,
	description string,
	defaultRate decimal.NullDecimal,
) (*models.CostCategory, error) {
	if err := s.ensureNameAvailable(name, ""); err != nil {
		return nil, err
	}

	category := &models.CostCategory{
		Name:        name,
		Type:        costType,
		Description: description,
		DefaultRate: defaultRate,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// ensureNameAvailable fails with ErrDuplicateCostCategory when another
// category already uses the name.
func (s *costCategoryService) ensureNameAvailable(name, exceptID string) error {
	query := s.db.Model(&models.CostCategory{}).Where("name = ?", name)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCostCategory
	}
	return nil
}

// GetCostCategories returns all categories ordered by name.
func (s *costCategoryService) GetCostCategories() ([]models.CostCategory, error) {
	var categories []models.CostCategory
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCostCategoryByID returns a category by ID.
func (s *costCategoryService) GetCostCategoryByID(categoryID string) (*models.CostCategory, error) {
	var category models.CostCategory
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCostCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCostCategory applies the non-nil fields. A rename keeps the cost
// entries' denormalised category name and the cost estimate keys in step.
func (s *costCategoryService) UpdateCostCategory(categoryID string, update CostCategoryUpdate) (*models.CostCategory, error) {
	category, err := s.GetCostCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	oldName := category.Name
	renamed := update.Name != nil && *update.Name != category.Name
	if renamed {
		if err := s.ensureNameAvailable(*update.Name, category.ID); err != nil {
			return nil, err
		}
		category.Name = *update.Name
	}
	if update.Type != nil {
		category.Type = *update.Type
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	if update.DefaultRate != nil {
		category.DefaultRate = *update.DefaultRate
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return err
		}
		if !renamed {
			return nil
		}
		if err := tx.Model(&models.CostEntry{}).Where("category_id = ?", category.ID).
			Update("category_name", category.Name).Error; err != nil {
			return err
		}
		return tx.Model(&models.CostEstimate{}).Where("category_name = ?", oldName).
			Update("category_name", category.Name).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCostCategory soft-deletes a category that no cost entry references.
func (s *costCategoryService) DeleteCostCategory(categoryID string) error {
	category, err := s.GetCostCategoryByID(categoryID)
	if err != nil {
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.CostEntry{}).Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if inUse > 0 {
		return apperrors.ErrCostCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// InitializeDefaults installs the default categories that do not exist yet
// and returns the ones it created.
func (s *costCategoryService) InitializeDefaults() ([]models.CostCategory, error) {
	created := []models.CostCategory{}
	for _, def := range models.DefaultCostCategories() {
		var count int64
		if err := s.db.Model(&models.CostCategory{}).Where("name = ?", def.Name).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}
		category := def
		if err := s.db.Create(&category).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, category)
	}

	logger.Named("categories").Infow("default cost categories initialised", "created", len(created))
	return created, nil
}
