package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"gorm.io/gorm"
)

type HostelFilter struct {
	Search string
	Type   string
	Page   int
	Limit  int
}

type HostelService struct {
	db       *gorm.DB
	cache    cache.Cache
	notifier Notifier
	pageSize int
}

func NewHostelService(db *gorm.DB, c cache.Cache, notifier Notifier, pageSize int) *HostelService {
	if c == nil {
		c = cache.Noop{}
	}
	return &HostelService{db: db, cache: c, notifier: orNop(notifier), pageSize: pageSize}
}

// ListByCollege pages through the visible hostels of a visible college,
// alphabetically.
func (s *HostelService) ListByCollege(ctx context.Context, caller moderation.Caller, collegeID uuid.UUID, filter HostelFilter) (*moderation.Page[models.Hostel], error) {
	if err := s.requireVisibleCollege(ctx, caller, collegeID); err != nil {
		return nil, err
	}

	page, limit := moderation.NormalizePage(filter.Page, filter.Limit, s.pageSize)

	query := s.db.WithContext(ctx).Model(&models.Hostel{}).
		Scopes(moderation.Scope(caller, "hostels", "")).
		Where("hostels.college_id = ?", collegeID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(hostels.name) LIKE ?", likePattern(filter.Search))
	}
	if filter.Type != "" && !strings.EqualFold(filter.Type, "all") {
		query = query.Where("hostels.type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count hostels: %w", err)
	}

	hostels := []models.Hostel{}
	err := query.Order("hostels.name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&hostels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}

	return &moderation.Page[models.Hostel]{
		Items:      hostels,
		Page:       page,
		Limit:      limit,
		Total:      int(total),
		TotalPages: moderation.TotalPages(int(total), limit),
	}, nil
}

// Get returns a hostel only through the college it belongs to.
func (s *HostelService) Get(ctx context.Context, caller moderation.Caller, collegeID, hostelID uuid.UUID) (*models.Hostel, error) {
	if err := s.requireVisibleCollege(ctx, caller, collegeID); err != nil {
		return nil, err
	}

	var hostel models.Hostel
	err := s.db.WithContext(ctx).
		Scopes(moderation.Scope(caller, "hostels", "")).
		Where("hostels.id = ? AND hostels.college_id = ?", hostelID, collegeID).
		First(&hostel).Error
	if err != nil {
		return nil, notFound(err, ErrHostelNotFound)
	}
	return &hostel, nil
}

// Visible looks a hostel up by id alone, for review pages.
func (s *HostelService) Visible(ctx context.Context, caller moderation.Caller, hostelID uuid.UUID) (*models.Hostel, error) {
	var hostel models.Hostel
	err := s.db.WithContext(ctx).
		Scopes(moderation.Scope(caller, "hostels", "")).
		Where("hostels.id = ?", hostelID).
		First(&hostel).Error
	if err != nil {
		return nil, notFound(err, ErrHostelNotFound)
	}
	return &hostel, nil
}

// Submit files a hostel under a college the caller can see; it stays pending.
func (s *HostelService) Submit(ctx context.Context, caller moderation.Caller, collegeID uuid.UUID, req models.HostelRequest) (*models.Hostel, error) {
	status, err := moderation.InitialStatus(caller, false)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisibleCollege(ctx, caller, collegeID); err != nil {
		return nil, err
	}
	req.CollegeID = collegeID
	return s.create(ctx, req, status)
}

// AdminAdd publishes a hostel under any existing college.
func (s *HostelService) AdminAdd(ctx context.Context, caller moderation.Caller, req models.HostelRequest) (*models.Hostel, error) {
	status, err := moderation.InitialStatus(caller, true)
	if err != nil {
		return nil, err
	}
	if req.CollegeID == uuid.Nil {
		return nil, fmt.Errorf("%w: college_id is required", ErrInvalidInput)
	}
	if err := s.requireVisibleCollege(ctx, caller, req.CollegeID); err != nil {
		return nil, err
	}
	return s.create(ctx, req, status)
}

func (s *HostelService) create(ctx context.Context, req models.HostelRequest, status moderation.Status) (*models.Hostel, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Description = utils.SanitizeString(req.Description)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hostel := models.Hostel{
		CollegeID:   req.CollegeID,
		Name:        req.Name,
		Type:        req.Type,
		Location:    utils.SanitizeString(req.Location),
		Distance:    utils.SanitizeString(req.Distance),
		Capacity:    req.Capacity,
		Rent:        utils.SanitizeString(req.Rent),
		Description: req.Description,
		MessFood:    req.MessFood,
		WardenName:  utils.SanitizeString(req.WardenName),
		WardenPhone: utils.SanitizeString(req.WardenPhone),
		WardenEmail: utils.SanitizeString(req.WardenEmail),
		Amenities:   models.NewStringList(req.Amenities),
		Photos:      models.NewStringList(req.Photos),
		Status:      status,
	}
	if err := s.db.WithContext(ctx).Create(&hostel).Error; err != nil {
		return nil, fmt.Errorf("failed to create hostel: %w", err)
	}

	invalidateCollege(ctx, s.cache, hostel.CollegeID)
	if status == moderation.StatusPending {
		s.notifier.SubmissionReceived("hostel", hostel.Name)
	}
	return &hostel, nil
}

// Update lets an admin change any field, photos and amenities included.
func (s *HostelService) Update(ctx context.Context, caller moderation.Caller, id uuid.UUID, req models.UpdateHostelRequest) (*models.Hostel, error) {
	if err := moderation.AuthorizeEdit(caller); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hostel, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCollege := hostel.CollegeID

	updates := map[string]interface{}{}
	if req.CollegeID != nil && *req.CollegeID != hostel.CollegeID {
		if err := s.requireVisibleCollege(ctx, caller, *req.CollegeID); err != nil {
			return nil, err
		}
		updates["college_id"] = *req.CollegeID
	}
	if req.Name != nil {
		name := utils.SanitizeString(*req.Name)
		if len(name) < 2 {
			return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
		}
		updates["name"] = name
	}
	setString(updates, "type", req.Type)
	setString(updates, "location", req.Location)
	setString(updates, "distance", req.Distance)
	setString(updates, "rent", req.Rent)
	setString(updates, "description", req.Description)
	setString(updates, "mess_food", req.MessFood)
	setString(updates, "warden_name", req.WardenName)
	setString(updates, "warden_phone", req.WardenPhone)
	setString(updates, "warden_email", req.WardenEmail)
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Amenities != nil {
		updates["amenities"] = models.NewStringList(req.Amenities)
	}
	if req.Photos != nil {
		updates["photos"] = models.NewStringList(req.Photos)
	}
	if req.Status != nil {
		to, err := moderation.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		next, err := moderation.Transition(caller, hostel.Status, to)
		if err != nil {
			return nil, err
		}
		updates["status"] = next
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(hostel).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update hostel: %w", err)
		}
		invalidateCollege(ctx, s.cache, previousCollege)
		if c, ok := updates["college_id"].(uuid.UUID); ok {
			invalidateCollege(ctx, s.cache, c)
		}
	}

	return s.find(ctx, id)
}

func (s *HostelService) Approve(ctx context.Context, caller moderation.Caller, id uuid.UUID) (*models.Hostel, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}
	hostel, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := moderation.Approve(caller, hostel.Status)
	if err != nil {
		return nil, err
	}
	if next != hostel.Status {
		if err := s.db.WithContext(ctx).Model(hostel).Update("status", next).Error; err != nil {
			return nil, fmt.Errorf("failed to approve hostel: %w", err)
		}
		hostel.Status = next
		invalidateCollege(ctx, s.cache, hostel.CollegeID)
	}
	return hostel, nil
}

// Delete removes a hostel and its reviews, whatever its status.
func (s *HostelService) Delete(ctx context.Context, caller moderation.Caller, id uuid.UUID) error {
	if err := moderation.Remove(caller); err != nil {
		return err
	}
	hostel, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hostel_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Hostel{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete hostel: %w", err)
	}

	invalidateCollege(ctx, s.cache, hostel.CollegeID)
	invalidateHostel(ctx, s.cache, id)
	return nil
}

// AdminList is the moderation view with the owning college's name, newest
// first. collegeID narrows it to one college when set.
func (s *HostelService) AdminList(ctx context.Context, caller moderation.Caller, tab moderation.Tab, search string, collegeID *uuid.UUID) ([]models.Hostel, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("College").
		Scopes(moderation.TabScope("hostels", tab)).
		Order("hostels.created_at DESC")
	if strings.TrimSpace(search) != "" {
		query = query.Where("LOWER(hostels.name) LIKE ?", likePattern(search))
	}
	if collegeID != nil {
		query = query.Where("hostels.college_id = ?", *collegeID)
	}

	hostels := []models.Hostel{}
	if err := query.Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}
	for i := range hostels {
		if hostels[i].College != nil {
			hostels[i].CollegeName = hostels[i].College.Name
		}
	}
	return hostels, nil
}

type ratingRow struct {
	Average *float64
}

// RecomputeRating stores the approved-review average on the hostel, or NULL
// when it has no approved reviews.
func (s *HostelService) RecomputeRating(ctx context.Context, hostelID uuid.UUID) error {
	var row ratingRow
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(rating) AS average").
		Where("hostel_id = ? AND status = ?", hostelID, moderation.StatusApproved).
		Scan(&row).Error
	if err != nil {
		return fmt.Errorf("failed to average ratings: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Hostel{}).
		Where("id = ?", hostelID).
		UpdateColumn("rating", row.Average).Error
	if err != nil {
		return fmt.Errorf("failed to store rating: %w", err)
	}
	return nil
}

// ReconcileRatings recomputes every hostel's rating and returns how many were
// processed.
func (s *HostelService) ReconcileRatings(ctx context.Context) (int, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Hostel{}).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to load hostels: %w", err)
	}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := s.RecomputeRating(ctx, id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

func (s *HostelService) find(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&hostel).Error; err != nil {
		return nil, notFound(err, ErrHostelNotFound)
	}
	return &hostel, nil
}

func (s *HostelService) requireVisibleCollege(ctx context.Context, caller moderation.Caller, collegeID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.College{}).
		Scopes(moderation.Scope(caller, "colleges", "")).
		Where("colleges.id = ?", collegeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to load college: %w", err)
	}
	if count == 0 {
		return ErrCollegeNotFound
	}
	return nil
}

func setString(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = utils.SanitizeString(*value)
	}
}

func invalidateHostel(ctx context.Context, c cache.Cache, hostelID uuid.UUID) {
	if err := c.Delete(ctx, cache.HostelStatsKey(hostelID)); err != nil {
		logger.Warnf("cache invalidation failed: %v", err)
	}
}
