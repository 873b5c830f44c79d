package main

import (
	"fmt"
	"os"

	"byapar/internal/config"
	"byapar/internal/database"
	"byapar/internal/logger"
	"byapar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seeding error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db := dbManager.DB()

	admin, err := seedUser(db, "admin", "admin@ratuwamai.gov.np", "password", models.RoleAdmin, "Admin User")
	if err != nil {
		return err
	}
	if _, err := seedUser(db, "worker", "worker@ratuwamai.gov.np", "worker", models.RoleWorker, "Data Entry Worker"); err != nil {
		return err
	}

	categories := []models.Category{
		{Name: "होटल", NameEnglish: "Hotel"},
		{Name: "फार्मेसी", NameEnglish: "Pharmacy"},
		{Name: "कृषि", NameEnglish: "Agriculture"},
		{Name: "दुग्ध उद्योग", NameEnglish: "Dairy Industry"},
		{Name: "सेवा", NameEnglish: "Service"},
		{Name: "कुखुरा फार्म", NameEnglish: "Poultry Farm"},
		{Name: "मोटरसाइकल मर्मत", NameEnglish: "Motorcycle Repair"},
		{Name: "रेस्टुरेन्ट", NameEnglish: "Restaurant"},
	}
	for i := range categories {
		categories[i].IsActive = true
		if err := db.Where(models.Category{Name: categories[i].Name}).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", categories[i].Name, err)
		}
	}

	if err := seedSampleBusiness(db, &categories[0], admin); err != nil {
		return err
	}

	log.Info("Database seeding completed")
	log.Info("Admin user: admin / password")
	log.Info("Worker user: worker / worker")
	return nil
}

func seedUser(db *gorm.DB, username, email, password string, role models.UserRole, fullName string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for %q: %w", username, err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		FullName: fullName,
		IsActive: true,
	}
	if err := db.Where(models.User{Username: username}).
		Attrs(user).
		FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user %q: %w", username, err)
	}
	return &user, nil
}

func seedSampleBusiness(db *gorm.DB, category *models.Category, createdBy *models.User) error {
	investment := 1500000.0
	turnover := 2000000.0
	permanent := 5
	female := 2
	avgIncome := 150000.0
	avgExpense := 100000.0

	business := models.Business{
		BusinessName:       "सुनिल होटल",
		ContactPerson:      "सुनिल अधिकारी",
		Position:           "स्वामी",
		BusinessAddress:    "भानेपा",
		ContactNumber:      "9842328403",
		Email:              "sunil@hotel.com",
		Tole:               "भानेपा",
		WardNumber:         5,
		Municipality:       "रतुवामाई नगरपालिका",
		EstablishmentYear:  "२०७०",
		OwnershipType:      "एकल स्वामित्व",
		BusinessType:       "सेवा",
		BusinessField:      "होटेल/रेस्टुरेन्ट",
		TotalInvestment:    &investment,
		LocationOwnership:  "स्वामित्वमा",
		AnnualTurnover:     &turnover,
		PermanentEmployees: &permanent,
		FemaleEmployees:    &female,
		IncomeSource:       "स्थानीय",
		AvgIncome:          &avgIncome,
		AvgExpense:         &avgExpense,
		CategoryID:         &category.ID,
		IsActive:           true,
		CreatedByID:        createdBy.ID,
	}
	if err := db.Where(models.Business{BusinessName: business.BusinessName, WardNumber: business.WardNumber}).
		Attrs(business).
		FirstOrCreate(&business).Error; err != nil {
		return fmt.Errorf("failed to seed sample business: %w", err)
	}
	return nil
}
