package services

import (
	"time"

	"byapar/internal/models"
	"byapar/internal/upload"
)

// UserServicer defines the contract for staff-user business logic.
type UserServicer interface {
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

// BusinessFilter holds optional filter parameters for listing businesses.
// An unset field adds no constraint on that dimension.
type BusinessFilter struct {
	Search        string
	Ward          *int
	CategoryID    *uint
	BusinessType  string
	OwnershipType string
	// IsActive defaults to true when nil.
	IsActive *bool
}

// TypeCount, OwnershipCount, SectorCount, and WardCount shape grouped counts
// for the statistics responses.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type OwnershipCount struct {
	Ownership string `json:"ownership"`
	Count     int64  `json:"count"`
}

type SectorCount struct {
	Sector string `json:"sector"`
	Count  int64  `json:"count"`
}

type WardCount struct {
	Ward  int   `json:"ward"`
	Count int64 `json:"count"`
}

// BusinessStats aggregates grouped counts over active businesses.
type BusinessStats struct {
	TotalBusinesses       int64            `json:"totalBusinesses"`
	BusinessesByType      []TypeCount      `json:"businessesByType"`
	BusinessesByOwnership []OwnershipCount `json:"businessesByOwnership"`
	BusinessesBySector    []SectorCount    `json:"businessesBySector"`
}

// BusinessServicer defines the contract for business registry logic.
type BusinessServicer interface {
	Create(business *models.Business, createdByID uint, files []upload.SavedFile) (*models.Business, error)
	GetByID(id uint) (*models.Business, error)
	List(filter BusinessFilter, page, limit int) ([]models.Business, int64, error)
	Update(id uint, updates map[string]interface{}, files []upload.SavedFile) (*models.Business, error)
	Delete(id uint) (bool, error)
	Search(term, location string) ([]models.Business, error)
	ByWard(ward int) ([]models.Business, error)
	Stats(ward *int) (*BusinessStats, error)
}

// CategoryWithCount is a category plus its live count of active businesses.
type CategoryWithCount struct {
	models.Category
	BusinessCount int64 `json:"businessCount" gorm:"column:business_count"`
}

// BusinessSummary is the compact business shape embedded in category detail
// responses.
type BusinessSummary struct {
	ID            uint      `json:"id"`
	BusinessName  string    `json:"businessName"`
	ContactPerson string    `json:"contactPerson"`
	WardNumber    int       `json:"wardNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CategoryDetail is a category with its active businesses attached.
type CategoryDetail struct {
	models.Category
	ActiveBusinesses []BusinessSummary `json:"businesses"`
	BusinessCount    int64             `json:"businessCount"`
}

// TopCategory is one entry of the top-categories ranking.
type TopCategory struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	NameEnglish   string `json:"nameEnglish,omitempty"`
	BusinessCount int64  `json:"businessCount"`
}

// CategoryStats aggregates category-level counts.
type CategoryStats struct {
	TotalCategories          int64         `json:"totalCategories"`
	ActiveCategories         int64         `json:"activeCategories"`
	CategoriesWithBusinesses int64         `json:"categoriesWithBusinesses"`
	TopCategories            []TopCategory `json:"topCategories"`
}

// CategoryServicer defines the contract for category logic.
type CategoryServicer interface {
	Create(name, nameEnglish, description string) (*models.Category, error)
	List(includeInactive bool) ([]CategoryWithCount, error)
	GetByID(id uint) (*CategoryDetail, error)
	Update(id uint, updates map[string]interface{}) (*models.Category, error)
	Delete(id uint) (bool, error)
	Stats() (*CategoryStats, error)
	Search(term string) ([]CategoryWithCount, error)
}

// DashboardStats is the overall summary view.
type DashboardStats struct {
	TotalBusinesses          int64            `json:"totalBusinesses"`
	ActiveBusinesses         int64            `json:"activeBusinesses"`
	TotalCategories          int64            `json:"totalCategories"`
	BusinessesPendingRenewal int64            `json:"businessesPendingRenewal"`
	BusinessesByType         []TypeCount      `json:"businessesByType"`
	BusinessesByOwnership    []OwnershipCount `json:"businessesByOwnership"`
	BusinessesByWard         []WardCount      `json:"businessesByWard"`
	BusinessesBySector       []SectorCount    `json:"businessesBySector"`
}

// DayCount is one day bucket of registration growth.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// InvestmentEntry is one row of the top-investment ranking.
type InvestmentEntry struct {
	BusinessName    string   `json:"businessName"`
	ContactPerson   string   `json:"contactPerson"`
	WardNumber      int      `json:"wardNumber"`
	TotalInvestment *float64 `json:"totalInvestment"`
}

// EmploymentStats aggregates employment figures; NULL aggregates default to 0.
type EmploymentStats struct {
	TotalEmployees          float64 `json:"totalEmployees"`
	FemaleEmployees         float64 `json:"femaleEmployees"`
	AvgEmployeesPerBusiness float64 `json:"avgEmployeesPerBusiness"`
	AvgSalary               float64 `json:"avgSalary"`
}

// Analytics is the time-windowed view of registration activity.
type Analytics struct {
	NewBusinesses   int64             `json:"newBusinesses"`
	BusinessGrowth  []DayCount        `json:"businessGrowth"`
	TopInvestments  []InvestmentEntry `json:"topInvestments"`
	EmploymentStats EmploymentStats   `json:"employmentStats"`
}

// Activity is one recent business-creation event.
type Activity struct {
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	BusinessID    uint      `json:"businessId"`
	BusinessName  string    `json:"businessName"`
	ContactPerson string    `json:"contactPerson"`
	WardNumber    int       `json:"wardNumber"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WardComparison is one ward's aggregate row.
type WardComparison struct {
	Ward            int     `json:"ward"`
	TotalBusinesses int64   `json:"totalBusinesses"`
	TotalInvestment float64 `json:"totalInvestment"`
	TotalEmployees  float64 `json:"totalEmployees"`
	AvgInvestment   float64 `json:"avgInvestment"`
}

// TopBusiness is one row of the top-businesses ranking.
type TopBusiness struct {
	ID                 uint     `json:"id"`
	BusinessName       string   `json:"businessName"`
	ContactPerson      string   `json:"contactPerson"`
	WardNumber         int      `json:"wardNumber"`
	TotalInvestment    *float64 `json:"totalInvestment"`
	PermanentEmployees *int     `json:"permanentEmployees"`
	AnnualTurnover     *float64 `json:"annualTurnover"`
	CategoryName       string   `json:"categoryName,omitempty"`
}

// DashboardServicer composes read-only summary views over the registry.
type DashboardServicer interface {
	Stats(ward *int) (*DashboardStats, error)
	Analytics(ward *int, periodDays int) (*Analytics, error)
	RecentActivities(limit int) ([]Activity, error)
	WardComparison() ([]WardComparison, error)
	TopBusinesses(metric string, limit int) ([]TopBusiness, error)
}
