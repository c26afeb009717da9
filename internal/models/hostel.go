package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"gorm.io/gorm"
)

const (
	HostelTypeBoys  = "Boys"
	HostelTypeGirls = "Girls"
	HostelTypeCoEd  = "Co-ed"

	MessFoodVeg    = "Veg"
	MessFoodNonVeg = "Non-veg"
	MessFoodBoth   = "Both"
)

type Hostel struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	CollegeID   uuid.UUID         `json:"college_id" gorm:"type:uuid;not null;index"`
	Name        string            `json:"name" gorm:"not null;index"`
	Type        string            `json:"type" gorm:"type:varchar(10);not null"`
	Location    string            `json:"location"`
	Distance    string            `json:"distance"`
	Capacity    int               `json:"capacity" gorm:"not null;check:capacity >= 1"`
	Rent        string            `json:"rent"`
	Description string            `json:"description"`
	MessFood    string            `json:"mess_food" gorm:"type:varchar(10)"`
	WardenName  string            `json:"warden_name"`
	WardenPhone string            `json:"warden_phone"`
	WardenEmail string            `json:"warden_email"`
	Amenities   StringList        `json:"amenities"`
	Photos      StringList        `json:"photos"`
	Rating      *float64          `json:"rating"`
	Status      moderation.Status `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	College *College `json:"-" gorm:"foreignKey:CollegeID"`
	Reviews []Review `json:"-" gorm:"foreignKey:HostelID;constraint:OnDelete:CASCADE"`

	// Set on admin listings only.
	CollegeName string `json:"college_name,omitempty" gorm:"-"`
}

func (h *Hostel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

func (h *Hostel) BeforeSave(tx *gorm.DB) error {
	if h.Amenities == nil {
		h.Amenities = NewStringList(nil)
	}
	if h.Photos == nil {
		h.Photos = NewStringList(nil)
	}
	return nil
}

func (h Hostel) ModerationStatus() moderation.Status { return h.Status }

func (Hostel) SubmittedBy() (uuid.UUID, bool) { return uuid.Nil, false }

type HostelRequest struct {
	CollegeID   uuid.UUID `json:"college_id"`
	Name        string    `json:"name" binding:"required,min=2,max=200"`
	Type        string    `json:"type" binding:"required,oneof=Boys Girls Co-ed"`
	Location    string    `json:"location" binding:"max=200"`
	Distance    string    `json:"distance" binding:"required,max=100"`
	Capacity    int       `json:"capacity" binding:"required,min=1"`
	Rent        string    `json:"rent" binding:"required,max=100"`
	Description string    `json:"description" binding:"required,min=10,max=5000"`
	MessFood    string    `json:"mess_food" binding:"required,oneof=Veg Non-veg Both"`
	WardenName  string    `json:"warden_name" binding:"required,max=100"`
	WardenPhone string    `json:"warden_phone" binding:"required,max=30"`
	WardenEmail string    `json:"warden_email" binding:"required,email"`
	Amenities   []string  `json:"amenities" binding:"omitempty,dive,min=1,max=100"`
	Photos      []string  `json:"photos" binding:"omitempty,dive,url"`
}

type UpdateHostelRequest struct {
	CollegeID   *uuid.UUID `json:"college_id,omitempty"`
	Name        *string    `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	Type        *string    `json:"type,omitempty" binding:"omitempty,oneof=Boys Girls Co-ed"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	Distance    *string    `json:"distance,omitempty" binding:"omitempty,max=100"`
	Capacity    *int       `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Rent        *string    `json:"rent,omitempty" binding:"omitempty,max=100"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
	MessFood    *string    `json:"mess_food,omitempty" binding:"omitempty,oneof=Veg Non-veg Both"`
	WardenName  *string    `json:"warden_name,omitempty" binding:"omitempty,max=100"`
	WardenPhone *string    `json:"warden_phone,omitempty" binding:"omitempty,max=30"`
	WardenEmail *string    `json:"warden_email,omitempty" binding:"omitempty,email"`
	Amenities   []string   `json:"amenities,omitempty" binding:"omitempty,dive,min=1,max=100"`
	Photos      []string   `json:"photos,omitempty" binding:"omitempty,dive,url"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=pending approved"`
}
