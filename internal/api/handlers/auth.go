package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Signup failed", err)
		return
	}

	utils.SendCreated(c, "User created successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	utils.SendSuccess(c, "Login successful", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Token refresh failed", err)
		return
	}

	utils.SendSuccess(c, "Token refreshed successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, "Logout failed", err)
		return
	}

	utils.SendSuccess(c, "Logged out successfully", nil)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	profile, err := h.authService.GetProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, "Profile not found", err)
		return
	}

	utils.SendSuccess(c, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	caller := middleware.CallerFrom(c)
	profile, err := h.authService.UpdateProfile(c.Request.Context(), caller.UserID, req)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", profile)
}

// IsAdmin exposes the server-side role check to the client.
func (h *AuthHandler) IsAdmin(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	utils.SendSuccess(c, "Role resolved", gin.H{"is_admin": caller.IsAdmin()})
}
