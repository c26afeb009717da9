package services

import (
	"context"
	"errors"
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

type CollegeService struct {
	db       *gorm.DB
	cache    cache.Cache
	cacheTTL time.Duration
	notifier Notifier
}

func NewCollegeService(db *gorm.DB, c cache.Cache, cacheTTL time.Duration, notifier Notifier) *CollegeService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CollegeService{db: db, cache: c, cacheTTL: cacheTTL, notifier: orNop(notifier)}
}

// List returns the colleges the caller may see, alphabetically, each with the
// number of hostels visible to the same caller.
func (s *CollegeService) List(ctx context.Context, caller moderation.Caller, search string) ([]models.College, error) {
	public := !caller.IsAdmin() && strings.TrimSpace(search) == ""
	if public {
		var cached []models.College
		err := s.cache.GetJSON(ctx, cache.PublicCollegesKey, &cached)
		if err == nil {
			return moderation.Filter(caller, cached, false), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Debug("college cache read failed: ", err)
		}
	}

	query := s.db.WithContext(ctx).
		Scopes(moderation.Scope(caller, "colleges", "")).
		Order("colleges.name ASC")
	if strings.TrimSpace(search) != "" {
		pattern := likePattern(search)
		query = query.Where("(LOWER(colleges.name) LIKE ? OR LOWER(colleges.location) LIKE ?)", pattern, pattern)
	}

	colleges := []models.College{}
	if err := query.Find(&colleges).Error; err != nil {
		return nil, fmt.Errorf("failed to list colleges: %w", err)
	}

	if err := s.attachHostelCounts(ctx, caller, colleges); err != nil {
		return nil, err
	}

	if public {
		s.cacheSet(ctx, cache.PublicCollegesKey, colleges)
	}
	return colleges, nil
}

func (s *CollegeService) Get(ctx context.Context, caller moderation.Caller, id uuid.UUID) (*models.College, error) {
	var college models.College
	err := s.db.WithContext(ctx).
		Scopes(moderation.Scope(caller, "colleges", "")).
		Where("colleges.id = ?", id).
		First(&college).Error
	if err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}

	if !caller.IsAdmin() {
		key := cache.CollegeHostelCountKey(id)
		if err := s.cache.GetJSON(ctx, key, &college.HostelCount); err == nil {
			return &college, nil
		}
	}

	list := []models.College{college}
	if err := s.attachHostelCounts(ctx, caller, list); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		s.cacheSet(ctx, cache.CollegeHostelCountKey(id), list[0].HostelCount)
	}
	return &list[0], nil
}

// Submit is the public form: the college waits for moderation.
func (s *CollegeService) Submit(ctx context.Context, caller moderation.Caller, req models.CollegeRequest) (*models.College, error) {
	return s.create(ctx, caller, req, false)
}

// AdminAdd publishes the college immediately.
func (s *CollegeService) AdminAdd(ctx context.Context, caller moderation.Caller, req models.CollegeRequest) (*models.College, error) {
	return s.create(ctx, caller, req, true)
}

func (s *CollegeService) create(ctx context.Context, caller moderation.Caller, req models.CollegeRequest, directAdd bool) (*models.College, error) {
	status, err := moderation.InitialStatus(caller, directAdd)
	if err != nil {
		return nil, err
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Location = utils.SanitizeString(req.Location)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	college := models.College{
		Name:     req.Name,
		Location: req.Location,
		Status:   status,
	}
	if err := s.db.WithContext(ctx).Create(&college).Error; err != nil {
		return nil, fmt.Errorf("failed to create college: %w", err)
	}

	s.invalidate(ctx, college.ID)
	if status == moderation.StatusPending {
		s.notifier.SubmissionReceived("college", college.Name)
	}
	return &college, nil
}

func (s *CollegeService) Update(ctx context.Context, caller moderation.Caller, id uuid.UUID, req models.UpdateCollegeRequest) (*models.College, error) {
	if err := moderation.AuthorizeEdit(caller); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	college, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := utils.SanitizeString(*req.Name)
		if len(name) < 2 {
			return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if req.Location != nil {
		location := utils.SanitizeString(*req.Location)
		if len(location) < 2 {
			return nil, fmt.Errorf("%w: location must be at least 2 characters", ErrInvalidInput)
		}
		updates["location"] = location
	}
	if req.Status != nil {
		to, err := moderation.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		next, err := moderation.Transition(caller, college.Status, to)
		if err != nil {
			return nil, err
		}
		updates["status"] = next
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(college).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update college: %w", err)
		}
		s.invalidate(ctx, id)
	}

	return s.find(ctx, id)
}

// Approve is idempotent: approving an approved college changes nothing.
func (s *CollegeService) Approve(ctx context.Context, caller moderation.Caller, id uuid.UUID) (*models.College, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}
	college, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := moderation.Approve(caller, college.Status)
	if err != nil {
		return nil, err
	}
	if next != college.Status {
		if err := s.db.WithContext(ctx).Model(college).Update("status", next).Error; err != nil {
			return nil, fmt.Errorf("failed to approve college: %w", err)
		}
		college.Status = next
		s.invalidate(ctx, id)
	}
	return college, nil
}

// Delete removes the college with its hostels and their reviews. It is also
// how a pending college is rejected.
func (s *CollegeService) Delete(ctx context.Context, caller moderation.Caller, id uuid.UUID) error {
	if err := moderation.Remove(caller); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hostelIDs := tx.Model(&models.Hostel{}).Select("id").Where("college_id = ?", id)
		if err := tx.Where("hostel_id IN (?)", hostelIDs).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("college_id = ?", id).Delete(&models.Hostel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.College{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete college: %w", err)
	}

	s.invalidate(ctx, id)
	return nil
}

// AdminList is the moderation view, newest first.
func (s *CollegeService) AdminList(ctx context.Context, caller moderation.Caller, tab moderation.Tab, search string) ([]models.College, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Order("colleges.created_at DESC")
	if strings.TrimSpace(search) != "" {
		pattern := likePattern(search)
		query = query.Where("(LOWER(colleges.name) LIKE ? OR LOWER(colleges.location) LIKE ?)", pattern, pattern)
	}

	colleges := []models.College{}
	if err := query.Find(&colleges).Error; err != nil {
		return nil, fmt.Errorf("failed to list colleges: %w", err)
	}
	colleges = moderation.Partition(colleges, tab)
	if err := s.attachHostelCounts(ctx, caller, colleges); err != nil {
		return nil, err
	}
	return colleges, nil
}

func (s *CollegeService) find(ctx context.Context, id uuid.UUID) (*models.College, error) {
	var college models.College
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&college).Error; err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}
	return &college, nil
}

type hostelCountRow struct {
	CollegeID uuid.UUID
	Count     int64
}

// attachHostelCounts fills HostelCount with one grouped query.
func (s *CollegeService) attachHostelCounts(ctx context.Context, caller moderation.Caller, colleges []models.College) error {
	if len(colleges) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(colleges))
	for i, c := range colleges {
		ids[i] = c.ID
	}

	var rows []hostelCountRow
	err := s.db.WithContext(ctx).Model(&models.Hostel{}).
		Scopes(moderation.Scope(caller, "hostels", "")).
		Select("hostels.college_id AS college_id, COUNT(*) AS count").
		Where("hostels.college_id IN ?", ids).
		Group("hostels.college_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count hostels: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.CollegeID] = r.Count
	}
	for i := range colleges {
		colleges[i].HostelCount = counts[colleges[i].ID]
	}
	return nil
}

func (s *CollegeService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		logger.Warnf("cache set %s failed: %v", key, err)
	}
}

// invalidate drops the public list and everything derived from one college.
func (s *CollegeService) invalidate(ctx context.Context, collegeID uuid.UUID) {
	invalidateCollege(ctx, s.cache, collegeID)
}

func invalidateCollege(ctx context.Context, c cache.Cache, collegeID uuid.UUID) {
	if err := c.Delete(ctx, cache.PublicCollegesKey); err != nil {
		logger.Warnf("cache invalidation failed: %v", err)
	}
	if err := c.DeletePrefix(ctx, cache.CollegePrefix(collegeID)); err != nil {
		logger.Warnf("cache invalidation failed: %v", err)
	}
}
