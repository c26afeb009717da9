package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	HostelID   uuid.UUID         `json:"hostel_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating     int               `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	FoodRating int               `json:"food_rating" gorm:"not null;check:food_rating >= 1 AND food_rating <= 5"`
	Content    string            `json:"content" gorm:"type:text;not null"`
	Photos     StringList        `json:"photos"`
	Upvotes    int               `json:"upvotes" gorm:"not null;default:0;check:upvotes >= 0"`
	Status     moderation.Status `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	// Relations
	Author *Profile `json:"-" gorm:"foreignKey:UserID"`
	Hostel *Hostel  `json:"-" gorm:"foreignKey:HostelID"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r *Review) BeforeSave(tx *gorm.DB) error {
	if r.Photos == nil {
		r.Photos = NewStringList(nil)
	}
	return nil
}

func (r Review) ModerationStatus() moderation.Status { return r.Status }

func (r Review) SubmittedBy() (uuid.UUID, bool) { return r.UserID, r.UserID != uuid.Nil }

func (r Review) Scores() (int, int) { return r.Rating, r.FoodRating }

type CreateReviewRequest struct {
	HostelID   uuid.UUID `json:"hostel_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	FoodRating int       `json:"food_rating" binding:"required,min=1,max=5"`
	Content    string    `json:"content" binding:"required,min=1,max=5000"`
	Photos     []string  `json:"photos" binding:"omitempty,max=10,dive,url"`
}

// ReviewResponse is the listing shape: the review plus who wrote it and where.
type ReviewResponse struct {
	Review
	AuthorName string `json:"author_name"`
	HostelName string `json:"hostel_name,omitempty"`
	IsOwn      bool   `json:"is_own"`
}
