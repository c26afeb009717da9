package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"gorm.io/gorm"
)

type College struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string            `json:"name" gorm:"not null;index"`
	Location  string            `json:"location" gorm:"not null"`
	Status    moderation.Status `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Filled from the hostel count aggregation, never stored.
	HostelCount int64 `json:"hostel_count" gorm:"-"`

	Hostels []Hostel `json:"-" gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE"`
}

func (c *College) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c College) ModerationStatus() moderation.Status { return c.Status }

func (College) SubmittedBy() (uuid.UUID, bool) { return uuid.Nil, false }

type CollegeRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=200"`
	Location string `json:"location" binding:"required,min=2,max=200"`
}

type UpdateCollegeRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	Location *string `json:"location,omitempty" binding:"omitempty,min=2,max=200"`
	Status   *string `json:"status,omitempty" binding:"omitempty,oneof=pending approved"`
}
