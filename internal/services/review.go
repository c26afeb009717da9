package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	SortByDate    = "date"
	SortByUpvotes = "upvotes"
)

type ReviewFilter struct {
	Search string
	Page   int
	Limit  int
}

type ReviewService struct {
	db       *gorm.DB
	hostels  *HostelService
	cache    cache.Cache
	cacheTTL time.Duration
	notifier Notifier
	pageSize int
}

func NewReviewService(db *gorm.DB, hostels *HostelService, c cache.Cache, cacheTTL time.Duration, notifier Notifier, pageSize int) *ReviewService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ReviewService{
		db:       db,
		hostels:  hostels,
		cache:    c,
		cacheTTL: cacheTTL,
		notifier: orNop(notifier),
		pageSize: pageSize,
	}
}

// ListForHostel shows the approved reviews of a hostel plus the caller's own
// pending ones, optionally narrowed by a content or author search.
func (s *ReviewService) ListForHostel(ctx context.Context, caller moderation.Caller, hostelID uuid.UUID, sort, search string) ([]models.ReviewResponse, error) {
	if _, err := s.hostels.Visible(ctx, caller, hostelID); err != nil {
		return nil, err
	}

	order := "reviews.created_at DESC"
	if sort == SortByUpvotes {
		order = "reviews.upvotes DESC, reviews.created_at DESC"
	}

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Author").
		Scopes(moderation.Scope(caller, "reviews", "user_id")).
		Where("reviews.hostel_id = ?", hostelID).
		Order(order).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return matching(toResponses(caller, moderation.Filter(caller, reviews, true)), search), nil
}

// ListPublished backs the global reviews page: approved reviews of approved
// hostels, newest first. Search covers content and the author's display name.
func (s *ReviewService) ListPublished(ctx context.Context, caller moderation.Caller, filter ReviewFilter) (*moderation.Page[models.ReviewResponse], error) {
	approvedHostels := s.db.Model(&models.Hostel{}).
		Select("id").
		Where("status = ?", moderation.StatusApproved)

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Hostel").
		Where("reviews.status = ?", moderation.StatusApproved).
		Where("reviews.hostel_id IN (?)", approvedHostels).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	_, limit := moderation.NormalizePage(filter.Page, filter.Limit, s.pageSize)
	page := moderation.Paginate(matching(toResponses(caller, reviews), filter.Search), filter.Page, limit)
	return &page, nil
}

func (s *ReviewService) Get(ctx context.Context, caller moderation.Caller, id uuid.UUID) (*models.ReviewResponse, error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !moderation.Visible(caller, review, true) {
		return nil, ErrReviewNotFound
	}

	resp := toResponse(caller, *review)
	return &resp, nil
}

// Create always files the review as pending, whoever writes it.
func (s *ReviewService) Create(ctx context.Context, caller moderation.Caller, req models.CreateReviewRequest) (*models.ReviewResponse, error) {
	status, err := moderation.InitialStatus(caller, false)
	if err != nil {
		return nil, err
	}

	req.Content = utils.SanitizeString(req.Content)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hostel, err := s.hostels.Visible(ctx, caller, req.HostelID)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		HostelID:   req.HostelID,
		UserID:     caller.UserID,
		Rating:     req.Rating,
		FoodRating: req.FoodRating,
		Content:    req.Content,
		Photos:     models.NewStringList(req.Photos),
		Status:     status,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.notifier.SubmissionReceived("review", hostel.Name)
	return s.Get(ctx, caller, review.ID)
}

// Approve publishes a review and refreshes the hostel's rating. Approving an
// approved review is a no-op.
func (s *ReviewService) Approve(ctx context.Context, caller moderation.Caller, id uuid.UUID) (*models.ReviewResponse, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := moderation.Approve(caller, review.Status)
	if err != nil {
		return nil, err
	}
	if next != review.Status {
		// review carries preloaded relations; update by id so they are not re-saved
		err := s.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", review.ID).Update("status", next).Error
		if err != nil {
			return nil, fmt.Errorf("failed to approve review: %w", err)
		}
		review.Status = next
		s.afterModeration(ctx, review.HostelID)
		s.notifyAuthor(ctx, review, true)
	}

	resp := toResponse(caller, *review)
	return &resp, nil
}

// Reject deletes a pending review for good. Approved reviews are removed with
// Delete instead.
func (s *ReviewService) Reject(ctx context.Context, caller moderation.Caller, id uuid.UUID) error {
	if err := moderation.RequireAdmin(caller); err != nil {
		return err
	}
	review, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := moderation.Reject(caller, review.Status); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to reject review: %w", err)
	}

	s.afterModeration(ctx, review.HostelID)
	s.notifyAuthor(ctx, review, false)
	return nil
}

func (s *ReviewService) Delete(ctx context.Context, caller moderation.Caller, id uuid.UUID) error {
	if err := moderation.Remove(caller); err != nil {
		return err
	}
	review, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.afterModeration(ctx, review.HostelID)
	return nil
}

// Upvote increments the counter in a single statement so concurrent votes
// are never lost. It returns the new count.
func (s *ReviewService) Upvote(ctx context.Context, caller moderation.Caller, id uuid.UUID) (int, error) {
	if !caller.Authenticated() {
		return 0, moderation.ErrUnauthenticated
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Review{}).
			Scopes(moderation.Scope(caller, "reviews", "user_id")).
			Where("reviews.id = ?", id).
			UpdateColumn("upvotes", gorm.Expr("upvotes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return tx.Select("upvotes").Where("id = ?", id).First(&review).Error
	})
	if err != nil {
		return 0, notFound(err, ErrReviewNotFound)
	}
	return review.Upvotes, nil
}

// Stats summarizes the approved reviews of a hostel the caller can see.
func (s *ReviewService) Stats(ctx context.Context, caller moderation.Caller, hostelID uuid.UUID) (moderation.Summary, error) {
	if _, err := s.hostels.Visible(ctx, caller, hostelID); err != nil {
		return moderation.Summary{}, err
	}

	key := cache.HostelStatsKey(hostelID)
	var summary moderation.Summary
	if err := s.cache.GetJSON(ctx, key, &summary); err == nil {
		return summary, nil
	}

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Select("rating", "food_rating", "status").
		Where("hostel_id = ? AND status = ?", hostelID, moderation.StatusApproved).
		Find(&reviews).Error
	if err != nil {
		return moderation.Summary{}, fmt.Errorf("failed to load review stats: %w", err)
	}

	summary = moderation.Summarize(reviews)
	if err := s.cache.SetJSON(ctx, key, summary, s.cacheTTL); err != nil {
		logger.Warnf("cache set %s failed: %v", key, err)
	}
	return summary, nil
}

// Pending is the admin moderation queue, newest first.
func (s *ReviewService) Pending(ctx context.Context, caller moderation.Caller) ([]models.ReviewResponse, error) {
	return s.AdminList(ctx, caller, moderation.TabPending)
}

func (s *ReviewService) AdminList(ctx context.Context, caller moderation.Caller, tab moderation.Tab) ([]models.ReviewResponse, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Hostel").
		Scopes(moderation.TabScope("reviews", tab)).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return toResponses(caller, reviews), nil
}

func (s *ReviewService) find(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Preload("Hostel").Preload("Author").Where("id = ?", id).First(&review).Error; err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return &review, nil
}

// afterModeration keeps the stored rating and cached stats in line with the
// approved set.
func (s *ReviewService) afterModeration(ctx context.Context, hostelID uuid.UUID) {
	if err := s.hostels.RecomputeRating(ctx, hostelID); err != nil {
		logger.WithFields(logger.Fields{"hostel_id": hostelID}).Error("failed to recompute rating: ", err)
	}
	invalidateHostel(ctx, s.cache, hostelID)
}

func (s *ReviewService) notifyAuthor(ctx context.Context, review *models.Review, approved bool) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("email").Where("id = ?", review.UserID).First(&user).Error; err != nil {
		logger.Warnf("no author email for review %s: %v", review.ID, err)
		return
	}
	hostelName := "your hostel"
	if review.Hostel != nil {
		hostelName = review.Hostel.Name
	}
	s.notifier.ReviewDecision(user.Email, hostelName, approved)
}

func toResponses(caller moderation.Caller, reviews []models.Review) []models.ReviewResponse {
	out := make([]models.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toResponse(caller, r))
	}
	return out
}

// matching keeps the reviews whose content or author name contains search.
// The author name is derived, so this cannot be pushed into SQL.
func matching(reviews []models.ReviewResponse, search string) []models.ReviewResponse {
	if strings.TrimSpace(search) == "" {
		return reviews
	}
	out := make([]models.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		if moderation.MatchesText(search, r.Content, r.AuthorName) {
			out = append(out, r)
		}
	}
	return out
}

func toResponse(caller moderation.Caller, r models.Review) models.ReviewResponse {
	resp := models.ReviewResponse{
		Review:     r,
		AuthorName: r.Author.DisplayName(),
		IsOwn:      caller.Authenticated() && r.UserID == caller.UserID,
	}
	if r.Hostel != nil {
		resp.HostelName = strings.TrimSpace(r.Hostel.Name)
	}
	return resp
}
