package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
	"byapar/internal/nepali"
	"byapar/internal/pagination"
	"byapar/internal/upload"
)

// wardPattern extracts a ward number from a location string. Only the
// English "Ward N" phrase is recognized; this mirrors the registry's
// observed behavior and is deliberately left unchanged.
var wardPattern = regexp.MustCompile(`(?i)ward (\d+)`)

// businessService handles business registry logic.
type businessService struct {
	db *gorm.DB
}

// NewBusinessService creates a new BusinessServicer.
func NewBusinessService(db *gorm.DB) BusinessServicer {
	return &businessService{db: db}
}

// apply appends the filter's constraints to a business query. Absent fields
// add no constraint; IsActive defaults to true.
func (f BusinessFilter) apply(db *gorm.DB) *gorm.DB {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	db = db.Where("is_active = ?", active)

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where(
			"(LOWER(business_name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(business_address) LIKE ? OR contact_number LIKE ?)",
			pattern, pattern, pattern, "%"+f.Search+"%",
		)
	}
	if f.Ward != nil {
		db = db.Where("ward_number = ?", *f.Ward)
	}
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.BusinessType != "" {
		db = db.Where("business_type = ?", f.BusinessType)
	}
	if f.OwnershipType != "" {
		db = db.Where("ownership_type = ?", f.OwnershipType)
	}
	return db
}

// withRelations eager-loads the category, a password-free creator summary,
// and the attached documents.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name")
		}).
		Preload("Documents")
}

// Create persists a new business scoped to the creating user, records one
// document row per uploaded file, and returns the business re-fetched with
// its relations attached.
func (s *businessService) Create(business *models.Business, createdByID uint, files []upload.SavedFile) (*models.Business, error) {
	if err := validateBusiness(business); err != nil {
		return nil, err
	}

	business.CreatedByID = createdByID
	business.IsActive = true

	if err := s.db.Create(business).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.attachDocuments(business.ID, files); err != nil {
		return nil, err
	}

	return s.GetByID(business.ID)
}

func validateBusiness(business *models.Business) error {
	switch {
	case business.BusinessName == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Business name is required")
	case business.ContactPerson == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Contact person is required")
	case business.BusinessAddress == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Business address is required")
	case business.ContactNumber == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Contact number is required")
	case business.WardNumber < 1 || business.WardNumber > 50:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Ward number must be between 1 and 50")
	}
	return nil
}

// attachDocuments inserts one document row per saved file. The disk write
// and the row insert are not one atomic unit; a crash in between leaves an
// orphaned file (known gap, no compensating cleanup).
func (s *businessService) attachDocuments(businessID uint, files []upload.SavedFile) error {
	if len(files) == 0 {
		return nil
	}

	documents := make([]models.BusinessDocument, 0, len(files))
	for _, f := range files {
		documents = append(documents, models.BusinessDocument{
			BusinessID:   businessID,
			Filename:     f.Filename,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			Path:         f.Path,
		})
	}

	if err := s.db.Create(&documents).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetByID retrieves a business with category, creator summary, and documents.
func (s *businessService) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	if err := withRelations(s.db).First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &business, nil
}

// List returns one page of filtered businesses ordered by creation time
// descending, plus the total matching count. The page and the count are two
// independent reads without a shared snapshot; under concurrent writes they
// can disagree (accepted approximation).
func (s *businessService) List(filter BusinessFilter, page, limit int) ([]models.Business, int64, error) {
	base := filter.apply(s.db.Model(&models.Business{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var businesses []models.Business
	query := filter.apply(withRelations(s.db)).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page, limit))
	if err := query.Find(&businesses).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return businesses, total, nil
}

// Update applies partial field changes and appends any new documents.
// Existing documents are never removed by an update.
func (s *businessService) Update(id uint, updates map[string]interface{}, files []upload.SavedFile) (*models.Business, error) {
	var business models.Business
	if err := s.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&business).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := s.attachDocuments(id, files); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete hard-deletes a business after confirming it exists. Returns false
// when the id has no matching row, so repeated deletes are a no-op rather
// than an error. Document rows go with the business via the cascade.
func (s *businessService) Delete(id uint) (bool, error) {
	var business models.Business
	if err := s.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&business).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// Search runs a free-text search over active businesses. A location string
// containing "Ward N" constrains the ward number instead of text-matching;
// any other location ORs in address and tole substring matches.
func (s *businessService) Search(term, location string) ([]models.Business, error) {
	term = nepali.SanitizeSearchTerm(term)
	pattern := "%" + term + "%"

	textMatch := "LOWER(business_name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(business_address) LIKE ?"
	args := []interface{}{pattern, pattern, pattern}

	query := s.db.Model(&models.Business{}).Where("is_active = ?", true)

	if location != "" {
		if m := wardPattern.FindStringSubmatch(location); m != nil {
			ward, _ := strconv.Atoi(m[1])
			query = query.Where("ward_number = ?", ward).Where("("+textMatch+")", args...)
		} else {
			locPattern := "%" + strings.ToLower(location) + "%"
			textMatch += " OR LOWER(business_address) LIKE ? OR LOWER(tole) LIKE ?"
			args = append(args, locPattern, locPattern)
			query = query.Where("("+textMatch+")", args...)
		}
	} else {
		query = query.Where("("+textMatch+")", args...)
	}

	var businesses []models.Business
	if err := query.Preload("Category").Order("business_name ASC").Find(&businesses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return businesses, nil
}

// ByWard returns all active businesses in a ward, ordered by name.
func (s *businessService) ByWard(ward int) ([]models.Business, error) {
	var businesses []models.Business
	err := s.db.
		Where("ward_number = ? AND is_active = ?", ward, true).
		Preload("Category").
		Order("business_name ASC").
		Find(&businesses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return businesses, nil
}

// Stats computes grouped counts over active businesses, optionally scoped to
// one ward. Groups with no value recorded are excluded.
func (s *businessService) Stats(ward *int) (*BusinessStats, error) {
	base := func() *gorm.DB {
		q := s.db.Model(&models.Business{}).Where("is_active = ?", true)
		if ward != nil {
			q = q.Where("ward_number = ?", *ward)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byType, err := s.groupByColumn(base(), "business_type")
	if err != nil {
		return nil, err
	}
	byOwnership, err := s.groupByColumn(base(), "ownership_type")
	if err != nil {
		return nil, err
	}
	bySector, err := s.groupByColumn(base(), "business_field")
	if err != nil {
		return nil, err
	}

	stats := &BusinessStats{
		TotalBusinesses:       total,
		BusinessesByType:      make([]TypeCount, 0, len(byType)),
		BusinessesByOwnership: make([]OwnershipCount, 0, len(byOwnership)),
		BusinessesBySector:    make([]SectorCount, 0, len(bySector)),
	}
	for _, g := range byType {
		stats.BusinessesByType = append(stats.BusinessesByType, TypeCount{Type: g.label(), Count: g.Count})
	}
	for _, g := range byOwnership {
		stats.BusinessesByOwnership = append(stats.BusinessesByOwnership, OwnershipCount{Ownership: g.label(), Count: g.Count})
	}
	for _, g := range bySector {
		stats.BusinessesBySector = append(stats.BusinessesBySector, SectorCount{Sector: g.label(), Count: g.Count})
	}
	return stats, nil
}

type groupRow struct {
	Label string
	Count int64
}

// label falls back to "अन्य" (other) for blank groups.
func (g groupRow) label() string {
	if g.Label == "" {
		return "अन्य"
	}
	return g.Label
}

func (s *businessService) groupByColumn(query *gorm.DB, column string) ([]groupRow, error) {
	var rows []groupRow
	err := query.
		Select(column+" AS label, COUNT(*) AS count").
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Group(column).
		Order(column + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}
