package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
)

// dashboardService composes read-only summary views over the registry.
type dashboardService struct {
	db         *gorm.DB
	businesses BusinessServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, businesses BusinessServicer) DashboardServicer {
	return &dashboardService{db: db, businesses: businesses}
}

func (s *dashboardService) activeBusinesses(ward *int) *gorm.DB {
	q := s.db.Model(&models.Business{}).Where("is_active = ?", true)
	if ward != nil {
		q = q.Where("ward_number = ?", *ward)
	}
	return q
}

// Stats returns the overall summary, optionally scoped to one ward. The
// by-ward breakdown is included only for the unscoped view.
func (s *dashboardService) Stats(ward *int) (*DashboardStats, error) {
	businessStats, err := s.businesses.Stats(ward)
	if err != nil {
		return nil, err
	}

	var totalCategories int64
	if err := s.db.Model(&models.Category{}).Where("is_active = ?", true).Count(&totalCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byWard := []WardCount{}
	if ward == nil {
		err := s.activeBusinesses(nil).
			Select("ward_number AS ward, COUNT(*) AS count").
			Group("ward_number").
			Order("ward_number ASC").
			Scan(&byWard).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return &DashboardStats{
		TotalBusinesses:  businessStats.TotalBusinesses,
		ActiveBusinesses: businessStats.TotalBusinesses,
		TotalCategories:  totalCategories,
		// Renewal tracking needs a renewal date column that the registry
		// does not record yet.
		BusinessesPendingRenewal: 0,
		BusinessesByType:         businessStats.BusinessesByType,
		BusinessesByOwnership:    businessStats.BusinessesByOwnership,
		BusinessesByWard:         byWard,
		BusinessesBySector:       businessStats.BusinessesBySector,
	}, nil
}

// Analytics reports registration activity for the trailing period.
func (s *dashboardService) Analytics(ward *int, periodDays int) (*Analytics, error) {
	if periodDays < 1 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	var newBusinesses int64
	if err := s.activeBusinesses(ward).Where("created_at >= ?", since).Count(&newBusinesses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	growth := []DayCount{}
	err := s.activeBusinesses(ward).
		Where("created_at >= ?", since).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&growth).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	topInvestments := []InvestmentEntry{}
	err = s.activeBusinesses(ward).
		Where("total_investment IS NOT NULL").
		Select("business_name, contact_person, ward_number, total_investment").
		Order("total_investment DESC").
		Limit(10).
		Scan(&topInvestments).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var employment struct {
		PermanentSum float64
		TemporarySum float64
		FemaleSum    float64
		AvgPermanent float64
		AvgSalary    float64
	}
	err = s.activeBusinesses(ward).
		Select(
			"COALESCE(SUM(permanent_employees), 0) AS permanent_sum, " +
				"COALESCE(SUM(temporary_contract_employees), 0) AS temporary_sum, " +
				"COALESCE(SUM(female_employees), 0) AS female_sum, " +
				"COALESCE(AVG(permanent_employees), 0) AS avg_permanent, " +
				"COALESCE(AVG(avg_salary), 0) AS avg_salary").
		Scan(&employment).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Analytics{
		NewBusinesses:  newBusinesses,
		BusinessGrowth: growth,
		TopInvestments: topInvestments,
		EmploymentStats: EmploymentStats{
			TotalEmployees:          employment.PermanentSum + employment.TemporarySum,
			FemaleEmployees:         employment.FemaleSum,
			AvgEmployeesPerBusiness: employment.AvgPermanent,
			AvgSalary:               employment.AvgSalary,
		},
	}, nil
}

// RecentActivities formats the latest business registrations as activity
// entries.
func (s *dashboardService) RecentActivities(limit int) ([]Activity, error) {
	if limit < 1 {
		limit = 10
	}

	var businesses []models.Business
	err := s.db.
		Where("is_active = ?", true).
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&businesses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	activities := make([]Activity, 0, len(businesses))
	for _, b := range businesses {
		createdBy := ""
		if b.CreatedBy != nil {
			createdBy = b.CreatedBy.FullName
			if createdBy == "" {
				createdBy = b.CreatedBy.Username
			}
		}
		activities = append(activities, Activity{
			Type:          "business_created",
			Description:   fmt.Sprintf("New business %q registered", b.BusinessName),
			BusinessID:    b.ID,
			BusinessName:  b.BusinessName,
			ContactPerson: b.ContactPerson,
			WardNumber:    b.WardNumber,
			CreatedBy:     createdBy,
			CreatedAt:     b.CreatedAt,
		})
	}
	return activities, nil
}

// WardComparison aggregates counts, investment, and employment per ward,
// ordered by ward ascending.
func (s *dashboardService) WardComparison() ([]WardComparison, error) {
	comparison := []WardComparison{}
	err := s.activeBusinesses(nil).
		Select(
			"ward_number AS ward, " +
				"COUNT(*) AS total_businesses, " +
				"COALESCE(SUM(total_investment), 0) AS total_investment, " +
				"COALESCE(SUM(permanent_employees), 0) AS total_employees, " +
				"COALESCE(AVG(total_investment), 0) AS avg_investment").
		Group("ward_number").
		Order("ward_number ASC").
		Scan(&comparison).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return comparison, nil
}

// topMetricColumns maps a ranking metric to its sort column. Rows with no
// value for the chosen metric are excluded.
var topMetricColumns = map[string]string{
	"investment": "total_investment",
	"employees":  "permanent_employees",
	"turnover":   "annual_turnover",
}

// TopBusinesses ranks active businesses by the chosen metric, descending.
func (s *dashboardService) TopBusinesses(metric string, limit int) ([]TopBusiness, error) {
	column, ok := topMetricColumns[metric]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Metric must be one of investment, employees, turnover")
	}
	if limit < 1 {
		limit = 10
	}

	top := []TopBusiness{}
	err := s.activeBusinesses(nil).
		Where(column + " IS NOT NULL").
		Select("businesses.id, businesses.business_name, businesses.contact_person, businesses.ward_number, " +
			"businesses.total_investment, businesses.permanent_employees, businesses.annual_turnover, " +
			"categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = businesses.category_id").
		Order(column + " DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return top, nil
}
