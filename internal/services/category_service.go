package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
)

// deleteAction is the outcome of the category delete policy.
type deleteAction int

const (
	removeCategory deleteAction = iota
	archiveCategory
)

// deletePolicy decides between hard delete and archive. Any associated
// business, active or not, forces an archive so historical records keep a
// valid category reference.
func deletePolicy(businessCount int64) deleteAction {
	if businessCount > 0 {
		return archiveCategory
	}
	return removeCategory
}

// categoryService handles category logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// Create inserts a new category. Name uniqueness is enforced by the unique
// index, not re-checked here.
func (s *categoryService) Create(name, nameEnglish, description string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}

	category := &models.Category{
		Name:        name,
		NameEnglish: nameEnglish,
		Description: description,
		IsActive:    true,
	}
	if err := s.db.Create(category).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// withBusinessCounts joins the live count of active businesses onto a
// category query.
func (s *categoryService) withBusinessCounts(query *gorm.DB) *gorm.DB {
	return query.
		Select("categories.*, COUNT(businesses.id) AS business_count").
		Joins("LEFT JOIN businesses ON businesses.category_id = categories.id AND businesses.is_active = ?", true).
		Group("categories.id").
		Order("categories.name ASC")
}

// List returns categories with their active-business counts, name ascending.
// Inactive categories are excluded unless includeInactive is set.
func (s *categoryService) List(includeInactive bool) ([]CategoryWithCount, error) {
	query := s.db.Model(&models.Category{})
	if !includeInactive {
		query = query.Where("categories.is_active = ?", true)
	}

	var categories []CategoryWithCount
	if err := s.withBusinessCounts(query).Scan(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetByID fetches a category with its active business summaries and count.
func (s *categoryService) GetByID(id uint) (*CategoryDetail, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var businesses []BusinessSummary
	err := s.db.Model(&models.Business{}).
		Select("id, business_name, contact_person, ward_number, created_at").
		Where("category_id = ? AND is_active = ?", id, true).
		Scan(&businesses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &CategoryDetail{
		Category:         category,
		ActiveBusinesses: businesses,
		BusinessCount:    int64(len(businesses)),
	}, nil
}

// Update applies partial field changes to a category.
func (s *categoryService) Update(id uint, updates map[string]interface{}) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return &category, nil
}

// Delete archives a referenced category or removes an unreferenced one,
// per deletePolicy. The bool reports whether the row was removed outright.
func (s *categoryService) Delete(id uint) (bool, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrCategoryNotFound
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var businessCount int64
	if err := s.db.Model(&models.Business{}).Where("category_id = ?", id).Count(&businessCount).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if deletePolicy(businessCount) == archiveCategory {
		if err := s.db.Model(&category).Update("is_active", false).Error; err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return false, nil
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// Stats aggregates category counts and the top 5 categories by
// active-business count.
func (s *categoryService) Stats() (*CategoryStats, error) {
	stats := &CategoryStats{}

	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Where("is_active = ?", true).Count(&stats.ActiveCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Model(&models.Category{}).
		Where("categories.is_active = ?", true).
		Where("EXISTS (SELECT 1 FROM businesses WHERE businesses.category_id = categories.id AND businesses.is_active = ?)", true).
		Count(&stats.CategoriesWithBusinesses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.name_english, COUNT(businesses.id) AS business_count").
		Joins("LEFT JOIN businesses ON businesses.category_id = categories.id AND businesses.is_active = ?", true).
		Where("categories.is_active = ?", true).
		Group("categories.id").
		Order("business_count DESC").
		Limit(5).
		Scan(&stats.TopCategories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stats, nil
}

// Search matches active categories whose name, English name, or description
// contains the term.
func (s *categoryService) Search(term string) ([]CategoryWithCount, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	query := s.db.Model(&models.Category{}).
		Where("categories.is_active = ?", true).
		Where("(LOWER(categories.name) LIKE ? OR LOWER(categories.name_english) LIKE ? OR LOWER(categories.description) LIKE ?)",
			pattern, pattern, pattern)

	var categories []CategoryWithCount
	if err := s.withBusinessCounts(query).Scan(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}
