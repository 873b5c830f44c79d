package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"byapar/internal/handlers"
	"byapar/internal/logger"
	"byapar/internal/middleware"
	"byapar/internal/models"
	"byapar/internal/services"
	"byapar/internal/upload"
	"byapar/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single
// test. Foreign keys are switched on so document cascades behave like
// production Postgres.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Business{},
		&models.BusinessDocument{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a temporary upload directory.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	storage, err := upload.NewStorage(t.TempDir(), 1024*1024, 10)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	// Services
	userService := services.NewUserService(db)
	businessService := services.NewBusinessService(db)
	categoryService := services.NewCategoryService(db)
	dashboardService := services.NewDashboardService(db, businessService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	businessHandler := handlers.NewBusinessHandler(businessService, storage)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	api.GET("/businesses/search", businessHandler.SearchBusinesses)
	api.GET("/businesses/stats", businessHandler.GetBusinessStats)
	api.GET("/businesses/ward/:ward", businessHandler.GetBusinessesByWard)
	api.GET("/businesses/:id", businessHandler.GetBusinessByID)

	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/categories/stats", categoryHandler.GetCategoryStats)
	api.GET("/categories/search", categoryHandler.SearchCategories)
	api.GET("/categories/:id", categoryHandler.GetCategoryByID)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.Auth(userService))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	staff := protected.Group("/")
	staff.Use(middleware.RequireStaff())
	staff.POST("/businesses", businessHandler.CreateBusiness)
	staff.GET("/businesses", businessHandler.GetAllBusinesses)
	staff.PUT("/businesses/:id", businessHandler.UpdateBusiness)

	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.DELETE("/businesses/:id", businessHandler.DeleteBusiness)
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	dashboard := staff.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandler.GetDashboardStats)
	dashboard.GET("/analytics", dashboardHandler.GetAnalytics)
	dashboard.GET("/activities", dashboardHandler.GetRecentActivities)
	dashboard.GET("/ward-comparison", dashboardHandler.GetWardComparison)
	dashboard.GET("/top-businesses", dashboardHandler.GetTopBusinesses)

	return &testApp{DB: db, Router: router}
}

// request makes a JSON request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestForm makes a multipart form request with optional PDF attachments
// named "documents".
func (app *testApp) requestForm(t *testing.T, method, path string, fields map[string]string, pdfFiles int, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field %s: %v", k, err)
		}
	}
	for i := 0; i < pdfFiles; i++ {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="documents"; filename="doc%d.pdf"`, i)}
		h["Content-Type"] = []string{"application/pdf"}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create form part: %v", err)
		}
		if _, err := part.Write([]byte("pdf content")); err != nil {
			t.Fatalf("failed to write form part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// seedUser inserts a staff user directly and returns it.
func (app *testApp) seedUser(t *testing.T, username, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@ratuwamai.gov.np",
		Password: string(hash),
		Role:     role,
		FullName: "Test " + username,
		IsActive: true,
	}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// login authenticates through the API and returns the issued token.
func (app *testApp) login(t *testing.T, username, password string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	return data["token"].(string)
}

// loginWorker seeds a worker and returns their token.
func (app *testApp) loginWorker(t *testing.T) string {
	t.Helper()
	app.seedUser(t, "worker1", "password123", models.RoleWorker)
	return app.login(t, "worker1", "password123")
}

// loginAdmin seeds an admin and returns their token.
func (app *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	app.seedUser(t, "admin1", "password123", models.RoleAdmin)
	return app.login(t, "admin1", "password123")
}

// businessFields returns a minimal valid registration form.
func businessFields(ward int) map[string]string {
	return map[string]string{
		"businessName":    "सुनिल होटल",
		"contactPerson":   "सुनिल अधिकारी",
		"businessAddress": "भानेपा",
		"contactNumber":   "9842328403",
		"wardNumber":      fmt.Sprintf("%d", ward),
	}
}

// createBusiness registers a business through the API and returns its ID.
func (app *testApp) createBusiness(t *testing.T, token string, fields map[string]string) float64 {
	t.Helper()

	rec := app.requestForm(t, "POST", "/api/businesses", fields, 0, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create business failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	return data["id"].(float64)
}
