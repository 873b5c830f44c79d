package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"byapar/internal/config"
	apperrors "byapar/internal/errors"
	"byapar/internal/models"
	"byapar/internal/response"
)

// Context keys set by the auth middleware.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed JWT for a staff user.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "byapar-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseToken parses and validates a token string, returning its claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// UserLoader fetches a user by ID. Implemented by the user service; declared
// here so the middleware does not depend on the services package.
type UserLoader interface {
	GetUserByID(id uint) (*models.User, error)
}

// Auth verifies the bearer token and re-fetches the user so that a disabled
// or deleted account is rejected even while its token is still unexpired.
func Auth(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, apperrors.ErrUnauthorized.Code, "Access token required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, apperrors.ErrUnauthorized.Code, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			response.Fail(c, apperrors.ErrInvalidToken.StatusCode, apperrors.ErrInvalidToken.Code, apperrors.ErrInvalidToken.Message)
			c.Abort()
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil || !user.IsActive {
			response.Fail(c, apperrors.ErrInactiveUser.StatusCode, apperrors.ErrInactiveUser.Code, apperrors.ErrInactiveUser.Message)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

// RequireStaff rejects requests from users that are neither workers nor admins.
func RequireStaff() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, models.RoleWorker)
}

func requireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRoleKey)
		if !exists {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, apperrors.ErrUnauthorized.Code, apperrors.ErrUnauthorized.Message)
			c.Abort()
			return
		}

		role := value.(models.UserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Fail(c, apperrors.ErrForbidden.StatusCode, apperrors.ErrForbidden.Code, apperrors.ErrForbidden.Message)
		c.Abort()
	}
}
