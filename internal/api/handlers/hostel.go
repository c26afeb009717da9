package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

type HostelHandler struct {
	hostelService *services.HostelService
}

func NewHostelHandler(hostelService *services.HostelService) *HostelHandler {
	return &HostelHandler{hostelService: hostelService}
}

// GET /colleges/:college_id/hostels?search=&type=&page=&limit=
func (h *HostelHandler) ListByCollege(c *gin.Context) {
	collegeID, ok := parseID(c, "college_id")
	if !ok {
		return
	}

	filter := services.HostelFilter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	page, err := h.hostelService.ListByCollege(c.Request.Context(), middleware.CallerFrom(c), collegeID, filter)
	if err != nil {
		respondError(c, "Failed to fetch hostels", err)
		return
	}

	utils.SendSuccess(c, "Hostels retrieved successfully", page)
}

func (h *HostelHandler) Get(c *gin.Context) {
	collegeID, ok := parseID(c, "college_id")
	if !ok {
		return
	}
	hostelID, ok := parseID(c, "hostel_id")
	if !ok {
		return
	}

	hostel, err := h.hostelService.Get(c.Request.Context(), middleware.CallerFrom(c), collegeID, hostelID)
	if err != nil {
		respondError(c, "Hostel not found", err)
		return
	}

	utils.SendSuccess(c, "Hostel retrieved successfully", hostel)
}

func (h *HostelHandler) Submit(c *gin.Context) {
	collegeID, ok := parseID(c, "college_id")
	if !ok {
		return
	}
	var req models.HostelRequest
	if !bindJSON(c, &req) {
		return
	}

	hostel, err := h.hostelService.Submit(c.Request.Context(), middleware.CallerFrom(c), collegeID, req)
	if err != nil {
		respondError(c, "Failed to submit hostel", err)
		return
	}

	utils.SendCreated(c, "Hostel submitted for review", hostel)
}

// GET /admin/hostels?tab=&search=&college_id=
func (h *HostelHandler) AdminList(c *gin.Context) {
	var collegeID *uuid.UUID
	if raw := c.Query("college_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid college_id")
			return
		}
		collegeID = &id
	}

	hostels, err := h.hostelService.AdminList(
		c.Request.Context(),
		middleware.CallerFrom(c),
		moderation.ParseTab(c.Query("tab")),
		c.Query("search"),
		collegeID,
	)
	if err != nil {
		respondError(c, "Failed to fetch hostels", err)
		return
	}

	utils.SendSuccess(c, "Hostels retrieved successfully", hostels)
}

func (h *HostelHandler) AdminCreate(c *gin.Context) {
	var req models.HostelRequest
	if !bindJSON(c, &req) {
		return
	}

	hostel, err := h.hostelService.AdminAdd(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, "Failed to create hostel", err)
		return
	}

	utils.SendCreated(c, "Hostel created successfully", hostel)
}

func (h *HostelHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateHostelRequest
	if !bindJSON(c, &req) {
		return
	}

	hostel, err := h.hostelService.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		respondError(c, "Failed to update hostel", err)
		return
	}

	utils.SendSuccess(c, "Hostel updated successfully", hostel)
}

func (h *HostelHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	hostel, err := h.hostelService.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "Failed to approve hostel", err)
		return
	}

	utils.SendSuccess(c, "Hostel approved", hostel)
}

func (h *HostelHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.hostelService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, "Failed to delete hostel", err)
		return
	}

	utils.SendSuccess(c, "Hostel deleted successfully", nil)
}
