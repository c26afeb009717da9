package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	photoService  *services.PhotoService
}

func NewReviewHandler(reviewService *services.ReviewService, photoService *services.PhotoService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, photoService: photoService}
}

type reviewStatsResponse struct {
	moderation.Summary
	DisplayRating     string `json:"display_rating"`
	DisplayFoodRating string `json:"display_food_rating"`
}

// GET /hostels/:hostel_id/reviews?sort=date|upvotes&search=
func (h *ReviewHandler) ListForHostel(c *gin.Context) {
	hostelID, ok := parseID(c, "hostel_id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForHostel(c.Request.Context(), middleware.CallerFrom(c), hostelID, c.Query("sort"), c.Query("search"))
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) Stats(c *gin.Context) {
	hostelID, ok := parseID(c, "hostel_id")
	if !ok {
		return
	}

	summary, err := h.reviewService.Stats(c.Request.Context(), middleware.CallerFrom(c), hostelID)
	if err != nil {
		respondError(c, "Failed to fetch review stats", err)
		return
	}

	rating, food := summary.Display()
	utils.SendSuccess(c, "Review stats retrieved successfully", reviewStatsResponse{
		Summary:           summary,
		DisplayRating:     rating,
		DisplayFoodRating: food,
	})
}

// GET /reviews?search=&page=&limit=
func (h *ReviewHandler) ListPublished(c *gin.Context) {
	filter := services.ReviewFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	page, err := h.reviewService.ListPublished(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", page)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "Review not found", err)
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review submitted for moderation", review)
}

// UploadPhotos takes a multipart "photos" field. Files that fail are listed
// next to the ones that made it; the URLs are then sent with the review.
func (h *ReviewHandler) UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	result, err := h.photoService.UploadReviewPhotos(c.Request.Context(), middleware.CallerFrom(c), form.File["photos"])
	if err != nil {
		respondError(c, "Failed to upload photos", err)
		return
	}

	switch {
	case len(result.Uploaded) == 0 && result.AllTooLarge():
		c.JSON(http.StatusRequestEntityTooLarge, utils.APIResponse{Success: false, Message: "Photos exceed the 5 MB limit", Data: result})
	case len(result.Uploaded) == 0:
		c.JSON(http.StatusBadRequest, utils.APIResponse{Success: false, Message: "No photos could be uploaded", Data: result})
	case len(result.Failed) > 0:
		utils.SendSuccess(c, "Some photos could not be uploaded", result)
	default:
		utils.SendSuccess(c, "Photos uploaded successfully", result)
	}
}

func (h *ReviewHandler) Upvote(c *gin.Context) {
	id, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	upvotes, err := h.reviewService.Upvote(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "Failed to upvote review", err)
		return
	}

	utils.SendSuccess(c, "Review upvoted", gin.H{"upvotes": upvotes})
}

// GET /admin/reviews?tab=
func (h *ReviewHandler) AdminList(c *gin.Context) {
	reviews, err := h.reviewService.AdminList(c.Request.Context(), middleware.CallerFrom(c), moderation.ParseTab(c.Query("tab")))
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) Pending(c *gin.Context) {
	reviews, err := h.reviewService.Pending(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, "Failed to fetch pending reviews", err)
		return
	}

	utils.SendSuccess(c, "Pending reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, "Failed to approve review", err)
		return
	}

	utils.SendSuccess(c, "Review approved", review)
}

func (h *ReviewHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Reject(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, "Failed to reject review", err)
		return
	}

	utils.SendSuccess(c, "Review rejected", nil)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}
