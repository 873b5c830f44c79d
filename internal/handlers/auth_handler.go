package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"byapar/internal/config"
	"byapar/internal/middleware"
	"byapar/internal/models"
	"byapar/internal/response"
	"byapar/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the change-password request payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email,omitempty"`
	Role     models.UserRole `json:"role"`
	FullName string          `json:"fullName,omitempty"`
}

// LoginResponse represents the authentication response with token
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn string       `json:"expiresIn"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		FullName: user.FullName,
	}
}

// Login handles staff login
// @Summary     Log in
// @Description Authenticate a staff user and issue a signed token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} response.Envelope "Token and profile"
// @Failure     401 {object} response.Envelope "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Login successful", LoginResponse{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresIn: config.Get().JWTExpirationDur.String(),
	})
}

// Logout acknowledges a logout. Tokens are discarded client-side.
// @Summary     Log out
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} response.Envelope
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, "Logout successful", nil)
}

// ProfileResponse is the authenticated user's profile.
type ProfileResponse struct {
	UserResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetProfile returns the authenticated user's profile
// @Summary     Get profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} response.Envelope
// @Failure     401 {object} response.Envelope
// @Router      /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", ProfileResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
}

// ChangePassword updates the authenticated user's password
// @Summary     Change password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Passwords"
// @Success     200 {object} response.Envelope
// @Failure     400 {object} response.Envelope "Wrong current password"
// @Router      /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	if err := h.userService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Password changed successfully", nil)
}
