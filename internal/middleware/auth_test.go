package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserLoader struct {
	user *models.User
	err  error
}

func (s *stubUserLoader) GetUserByID(uint) (*models.User, error) {
	return s.user, s.err
}

func activeUser(role models.UserRole) *models.User {
	return &models.User{
		Base:     models.Base{ID: 1},
		Username: "tester",
		Role:     role,
		IsActive: true,
	}
}

func authedRouter(loader *stubUserLoader, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(loader)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndParseToken(t *testing.T) {
	user := activeUser(models.RoleWorker)

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != user.Username || claims.Role != user.Role {
		t.Errorf("claims do not round-trip: %+v", claims)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	_, err := ParseToken("not-a-token")
	if err != apperrors.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuth(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		user := activeUser(models.RoleWorker)
		token, _ := GenerateToken(user)
		r := authedRouter(&stubUserLoader{user: user})

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		r := authedRouter(&stubUserLoader{user: activeUser(models.RoleWorker)})

		rec := doGet(r, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		r := authedRouter(&stubUserLoader{user: activeUser(models.RoleWorker)})

		rec := doGet(r, "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		r := authedRouter(&stubUserLoader{user: activeUser(models.RoleWorker)})

		rec := doGet(r, "Bearer garbage")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	// A token stays signed after the account is disabled; the re-fetch must
	// still reject the request.
	t.Run("deactivated_user_with_live_token", func(t *testing.T) {
		user := activeUser(models.RoleWorker)
		token, _ := GenerateToken(user)

		disabled := activeUser(models.RoleWorker)
		disabled.IsActive = false
		r := authedRouter(&stubUserLoader{user: disabled})

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("deleted_user_with_live_token", func(t *testing.T) {
		user := activeUser(models.RoleWorker)
		token, _ := GenerateToken(user)
		r := authedRouter(&stubUserLoader{err: apperrors.ErrUserNotFound})

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("admin_passes_admin_gate", func(t *testing.T) {
		user := activeUser(models.RoleAdmin)
		token, _ := GenerateToken(user)
		r := authedRouter(&stubUserLoader{user: user}, RequireAdmin())

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("worker_blocked_by_admin_gate", func(t *testing.T) {
		user := activeUser(models.RoleWorker)
		token, _ := GenerateToken(user)
		r := authedRouter(&stubUserLoader{user: user}, RequireAdmin())

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("worker_passes_staff_gate", func(t *testing.T) {
		user := activeUser(models.RoleWorker)
		token, _ := GenerateToken(user)
		r := authedRouter(&stubUserLoader{user: user}, RequireStaff())

		rec := doGet(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
