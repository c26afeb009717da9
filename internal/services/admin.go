package services

import (
	"context"
	"fmt"

	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Total    int64 `json:"total"`
}

type DashboardStats struct {
	Colleges StatusCounts `json:"colleges"`
	Hostels  StatusCounts `json:"hostels"`
	Reviews  StatusCounts `json:"reviews"`
	Users    int64        `json:"users"`
}

func (s *AdminService) Dashboard(ctx context.Context, caller moderation.Caller) (*DashboardStats, error) {
	if err := moderation.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var stats DashboardStats
	var err error
	if stats.Colleges, err = s.countByStatus(ctx, &models.College{}); err != nil {
		return nil, err
	}
	if stats.Hostels, err = s.countByStatus(ctx, &models.Hostel{}); err != nil {
		return nil, err
	}
	if stats.Reviews, err = s.countByStatus(ctx, &models.Review{}); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return &stats, nil
}

type statusCountRow struct {
	Status moderation.Status
	Count  int64
}

func (s *AdminService) countByStatus(ctx context.Context, model interface{}) (StatusCounts, error) {
	var rows []statusCountRow
	err := s.db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count by status: %w", err)
	}

	var counts StatusCounts
	for _, r := range rows {
		switch r.Status {
		case moderation.StatusPending:
			counts.Pending = r.Count
		case moderation.StatusApproved:
			counts.Approved = r.Count
		}
		counts.Total += r.Count
	}
	return counts, nil
}
