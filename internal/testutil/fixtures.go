package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"byapar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password shared by all user fixtures.
const TestPassword = "password123"

// CreateTestUser creates an active worker with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	username := fmt.Sprintf("worker%d", nextID())
	return CreateTestUserWithRole(t, db, username, models.RoleWorker)
}

// CreateTestAdmin creates an active admin user.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	username := fmt.Sprintf("admin%d", nextID())
	return CreateTestUserWithRole(t, db, username, models.RoleAdmin)
}

// CreateTestUserWithRole creates a user with the given username and role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@test.gov.np",
		Password: string(hash),
		Role:     role,
		FullName: "Test " + username,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		Name:        fmt.Sprintf("श्रेणी %d", n),
		NameEnglish: fmt.Sprintf("Category %d", n),
		IsActive:    true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBusiness creates an active business in ward 1.
func CreateTestBusiness(t *testing.T, db *gorm.DB, createdByID uint) *models.Business {
	t.Helper()
	return CreateTestBusinessInWard(t, db, createdByID, 1)
}

// CreateTestBusinessInWard creates an active business in the given ward.
func CreateTestBusinessInWard(t *testing.T, db *gorm.DB, createdByID uint, ward int) *models.Business {
	t.Helper()

	n := nextID()
	business := &models.Business{
		BusinessName:    fmt.Sprintf("Test Business %d", n),
		ContactPerson:   fmt.Sprintf("Contact Person %d", n),
		BusinessAddress: fmt.Sprintf("Address %d", n),
		ContactNumber:   "9812345678",
		WardNumber:      ward,
		IsActive:        true,
		CreatedByID:     createdByID,
	}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("failed to create test business: %v", err)
	}
	return business
}

// CreateTestDocument attaches a document row to the given business.
func CreateTestDocument(t *testing.T, db *gorm.DB, businessID uint) *models.BusinessDocument {
	t.Helper()

	n := nextID()
	doc := &models.BusinessDocument{
		BusinessID:   businessID,
		Filename:     fmt.Sprintf("doc-%d.pdf", n),
		OriginalName: fmt.Sprintf("original-%d.pdf", n),
		MimeType:     "application/pdf",
		Size:         1024,
		Path:         fmt.Sprintf("uploads/documents/doc-%d.pdf", n),
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return doc
}
