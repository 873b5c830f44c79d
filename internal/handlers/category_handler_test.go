package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
	"byapar/internal/services"
)

type mockCategoryService struct {
	createFn  func(name, nameEnglish, description string) (*models.Category, error)
	listFn    func(includeInactive bool) ([]services.CategoryWithCount, error)
	getByIDFn func(id uint) (*services.CategoryDetail, error)
	updateFn  func(id uint, updates map[string]interface{}) (*models.Category, error)
	deleteFn  func(id uint) (bool, error)
	statsFn   func() (*services.CategoryStats, error)
	searchFn  func(term string) ([]services.CategoryWithCount, error)
}

func (m *mockCategoryService) Create(name, nameEnglish, description string) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(name, nameEnglish, description)
	}
	return &models.Category{Name: name}, nil
}

func (m *mockCategoryService) List(includeInactive bool) ([]services.CategoryWithCount, error) {
	if m.listFn != nil {
		return m.listFn(includeInactive)
	}
	return nil, nil
}

func (m *mockCategoryService) GetByID(id uint) (*services.CategoryDetail, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &services.CategoryDetail{}, nil
}

func (m *mockCategoryService) Update(id uint, updates map[string]interface{}) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(id, updates)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) Delete(id uint) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return true, nil
}

func (m *mockCategoryService) Stats() (*services.CategoryStats, error) {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return &services.CategoryStats{}, nil
}

func (m *mockCategoryService) Search(term string) ([]services.CategoryWithCount, error) {
	if m.searchFn != nil {
		return m.searchFn(term)
	}
	return nil, nil
}

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.GET("/categories", handler.GetAllCategories)
	r.GET("/categories/stats", handler.GetCategoryStats)
	r.GET("/categories/search", handler.SearchCategories)
	r.GET("/categories/:id", handler.GetCategoryByID)
	r.POST("/categories", injectUser(testUser()), handler.CreateCategory)
	r.PUT("/categories/:id", injectUser(testUser()), handler.UpdateCategory)
	r.DELETE("/categories/:id", injectUser(testUser()), handler.DeleteCategory)
	return r
}

func TestCategoryHandler_Create(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		svc := &mockCategoryService{
			createFn: func(name, nameEnglish, description string) (*models.Category, error) {
				if name != "होटल" || nameEnglish != "Hotel" {
					t.Errorf("unexpected arguments %q %q", name, nameEnglish)
				}
				return &models.Category{Base: models.Base{ID: 1}, Name: name}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "POST", "/categories", `{"name":"होटल","nameEnglish":"Hotel"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createFn: func(string, string, string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "POST", "/categories", `{"name":"होटल"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertEnvelopeError(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})

	t.Run("returns 400 when name missing", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doJSON(r, "POST", "/categories", `{"description":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		errors := parseJSON(t, rec)["errors"].(map[string]interface{})
		if errors["Name"] == nil {
			t.Errorf("expected a field error for Name, got %v", errors)
		}
	})
}

func TestCategoryHandler_List(t *testing.T) {
	t.Run("passes includeInactive flag", func(t *testing.T) {
		var got bool
		svc := &mockCategoryService{
			listFn: func(includeInactive bool) ([]services.CategoryWithCount, error) {
				got = includeInactive
				return nil, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "GET", "/categories?includeInactive=true", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !got {
			t.Error("expected includeInactive true")
		}
	})
}

func TestCategoryHandler_Update(t *testing.T) {
	t.Run("builds updates from supplied fields only", func(t *testing.T) {
		svc := &mockCategoryService{
			updateFn: func(id uint, updates map[string]interface{}) (*models.Category, error) {
				if id != 3 {
					t.Errorf("expected id 3, got %d", id)
				}
				if len(updates) != 2 {
					t.Errorf("expected 2 updates, got %v", updates)
				}
				if updates["name_english"] != "Dairy" || updates["is_active"] != false {
					t.Errorf("unexpected updates %v", updates)
				}
				return &models.Category{}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "PUT", "/categories/3", `{"nameEnglish":"Dairy","isActive":false}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			updateFn: func(uint, map[string]interface{}) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "PUT", "/categories/99", `{"nameEnglish":"Dairy"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertEnvelopeError(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_Delete(t *testing.T) {
	t.Run("reports removal", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doJSON(r, "DELETE", "/categories/3", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Category deleted successfully" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("reports archive when businesses reference it", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteFn: func(uint) (bool, error) { return false, nil },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "DELETE", "/categories/3", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Category deactivated because businesses reference it" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteFn: func(uint) (bool, error) { return false, apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "DELETE", "/categories/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_Search(t *testing.T) {
	t.Run("returns matches", func(t *testing.T) {
		svc := &mockCategoryService{
			searchFn: func(term string) ([]services.CategoryWithCount, error) {
				if term != "कृषि" {
					t.Errorf("unexpected term %q", term)
				}
				return []services.CategoryWithCount{{}}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doJSON(r, "GET", "/categories/search?term="+url.QueryEscape("कृषि"), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("rejects empty term", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doJSON(r, "GET", "/categories/search", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertEnvelopeError(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestCategoryHandler_Stats(t *testing.T) {
	svc := &mockCategoryService{
		statsFn: func() (*services.CategoryStats, error) {
			return &services.CategoryStats{TotalCategories: 8, ActiveCategories: 7}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc))

	rec := doJSON(r, "GET", "/categories/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	if data["totalCategories"] != float64(8) {
		t.Errorf("expected totalCategories 8, got %v", data["totalCategories"])
	}
}
