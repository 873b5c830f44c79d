package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"byapar/internal/nepali"
	"byapar/internal/response"
	"byapar/internal/services"
)

// DashboardHandler serves aggregate views for the admin dashboard
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func wardQuery(c *gin.Context) *int {
	raw := c.Query("ward")
	if raw == "" {
		return nil
	}
	ward, err := strconv.Atoi(nepali.ToEnglishDigits(raw))
	if err != nil {
		return nil
	}
	return &ward
}

// GetDashboardStats returns the overall summary
// @Summary     Dashboard summary
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       ward query int false "Scope to a ward"
// @Success     200 {object} response.Envelope
// @Router      /dashboard/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(wardQuery(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Dashboard statistics retrieved successfully", stats)
}

// GetAnalytics returns time-windowed registration analytics
// @Summary     Registration analytics
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       ward query int false "Scope to a ward"
// @Param       period query int false "Window in days (default 30)"
// @Success     200 {object} response.Envelope
// @Router      /dashboard/analytics [get]
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	period := 30
	if raw := c.Query("period"); raw != "" {
		if n, err := strconv.Atoi(nepali.ToEnglishDigits(raw)); err == nil && n > 0 {
			period = n
		}
	}

	analytics, err := h.dashboardService.Analytics(wardQuery(c), period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Analytics retrieved successfully", analytics)
}

// GetRecentActivities lists the latest registration events
// @Summary     Recent activities
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Max entries (default 10)"
// @Success     200 {object} response.Envelope
// @Router      /dashboard/activities [get]
func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	activities, err := h.dashboardService.RecentActivities(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Recent activities retrieved successfully", activities)
}

// GetWardComparison returns per-ward aggregates side by side
// @Summary     Ward comparison
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} response.Envelope
// @Router      /dashboard/ward-comparison [get]
func (h *DashboardHandler) GetWardComparison(c *gin.Context) {
	comparison, err := h.dashboardService.WardComparison()
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Ward comparison retrieved successfully", comparison)
}

// GetTopBusinesses ranks businesses by a chosen metric
// @Summary     Top businesses
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       metric query string false "investment, employees, or turnover (default investment)"
// @Param       limit query int false "Max entries (default 10)"
// @Success     200 {object} response.Envelope
// @Failure     400 {object} response.Envelope "Unknown metric"
// @Router      /dashboard/top-businesses [get]
func (h *DashboardHandler) GetTopBusinesses(c *gin.Context) {
	metric := c.DefaultQuery("metric", "investment")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	businesses, err := h.dashboardService.TopBusinesses(metric, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Top businesses retrieved successfully", businesses)
}
