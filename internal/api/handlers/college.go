package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

type CollegeHandler struct {
	collegeService *services.CollegeService
}

func NewCollegeHandler(collegeService *services.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeService: collegeService}
}

// GET /colleges?search=
func (h *CollegeHandler) List(c *gin.Context) {
	colleges, err := h.collegeService.List(c.Request.Context(), middleware.CallerFrom(c), c.Query("search"))
	if err != nil {
		respondError(c, "Failed to fetch colleges", err)
		return
	}

	utils.SendSuccess(c, "Colleges retrieved successfully", colleges)
}

func (h *CollegeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "college_id")
	if !ok {
		return
	}

	college, err := h.collegeService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "College not found", err)
		return
	}

	utils.SendSuccess(c, "College retrieved successfully", college)
}

func (h *CollegeHandler) Submit(c *gin.Context) {
	var req models.CollegeRequest
	if !bindJSON(c, &req) {
		return
	}

	college, err := h.collegeService.Submit(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, "Failed to submit college", err)
		return
	}

	utils.SendCreated(c, "College submitted for review", college)
}

// GET /admin/colleges?tab=&search=
func (h *CollegeHandler) AdminList(c *gin.Context) {
	colleges, err := h.collegeService.AdminList(
		c.Request.Context(),
		middleware.CallerFrom(c),
		moderation.ParseTab(c.Query("tab")),
		c.Query("search"),
	)
	if err != nil {
		respondError(c, "Failed to fetch colleges", err)
		return
	}

	utils.SendSuccess(c, "Colleges retrieved successfully", colleges)
}

func (h *CollegeHandler) AdminCreate(c *gin.Context) {
	var req models.CollegeRequest
	if !bindJSON(c, &req) {
		return
	}

	college, err := h.collegeService.AdminAdd(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, "Failed to create college", err)
		return
	}

	utils.SendCreated(c, "College created successfully", college)
}

func (h *CollegeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCollegeRequest
	if !bindJSON(c, &req) {
		return
	}

	college, err := h.collegeService.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		respondError(c, "Failed to update college", err)
		return
	}

	utils.SendSuccess(c, "College updated successfully", college)
}

func (h *CollegeHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	college, err := h.collegeService.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "Failed to approve college", err)
		return
	}

	utils.SendSuccess(c, "College approved", college)
}

func (h *CollegeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.collegeService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, "Failed to delete college", err)
		return
	}

	utils.SendSuccess(c, "College deleted successfully", nil)
}
