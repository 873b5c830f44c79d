package main

import (
	"fmt"
	"net/http"
	"os"

	"byapar/internal/config"
	"byapar/internal/database"
	"byapar/internal/handlers"
	"byapar/internal/logger"
	"byapar/internal/middleware"
	"byapar/internal/services"
	"byapar/internal/upload"
	"byapar/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "byapar/internal/docs" // Import swagger docs
)

// @title           Byapar API
// @version         1.0
// @description     Byapar is a municipal business registry that tracks registered businesses, their categories, and ward-level statistics.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Document storage
	storage, err := upload.NewStorage(appConfig.UploadPath, appConfig.MaxFileSize, appConfig.MaxFiles)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	businessService := services.NewBusinessService(db)
	categoryService := services.NewCategoryService(db)
	dashboardService := services.NewDashboardService(db, businessService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	businessHandler := handlers.NewBusinessHandler(businessService, storage)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API group
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

	// Business routes (staff can register and edit, only admins delete)
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

	// Dashboard routes
	dashboard := staff.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandler.GetDashboardStats)
	dashboard.GET("/analytics", dashboardHandler.GetAnalytics)
	dashboard.GET("/activities", dashboardHandler.GetRecentActivities)
	dashboard.GET("/ward-comparison", dashboardHandler.GetWardComparison)
	dashboard.GET("/top-businesses", dashboardHandler.GetTopBusinesses)

	log.Infof("Starting Byapar backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
