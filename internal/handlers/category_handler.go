package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "byapar/internal/errors"
	"byapar/internal/response"
	"byapar/internal/services"
)

// CategoryHandler handles business category requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	NameEnglish string `json:"nameEnglish" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateCategoryRequest carries partial category updates.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	NameEnglish *string `json:"nameEnglish" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

func (r *UpdateCategoryRequest) toUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.NameEnglish != nil {
		updates["name_english"] = *r.NameEnglish
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}

// CreateCategory registers a new category
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category payload"
// @Success     201 {object} response.Envelope
// @Failure     409 {object} response.Envelope "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	category, err := h.categoryService.Create(req.Name, req.NameEnglish, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// GetAllCategories lists categories with their active business counts
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Param       includeInactive query bool false "Include archived categories"
// @Success     200 {object} response.Envelope
// @Router      /categories [get]
func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"

	categories, err := h.categoryService.List(includeInactive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// GetCategoryByID fetches one category with its active businesses
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

// UpdateCategory applies partial changes to a category
// @Summary     Update a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	category, err := h.categoryService.Update(id, req.toUpdates())
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory removes a category, or archives it when businesses reference it
// @Summary     Delete a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.categoryService.Delete(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if removed {
		response.OK(c, "Category deleted successfully", nil)
		return
	}
	response.OK(c, "Category deactivated because businesses reference it", nil)
}

// GetCategoryStats returns category-level aggregate counts
// @Summary     Category statistics
// @Tags        categories
// @Produce     json
// @Success     200 {object} response.Envelope
// @Router      /categories/stats [get]
func (h *CategoryHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.categoryService.Stats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Category statistics retrieved successfully", stats)
}

// SearchCategories looks up categories by name or description
// @Summary     Search categories
// @Tags        categories
// @Produce     json
// @Param       term query string true "Search term"
// @Success     200 {object} response.Envelope
// @Router      /categories/search [get]
func (h *CategoryHandler) SearchCategories(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Search term is required"))
		return
	}

	categories, err := h.categoryService.Search(term)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Category search completed successfully", categories)
}
