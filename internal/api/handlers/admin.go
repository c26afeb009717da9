package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, "Failed to get dashboard stats", err)
		return
	}

	utils.SendSuccess(c, "Dashboard stats retrieved successfully", stats)
}
