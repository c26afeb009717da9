package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"` // Hide password in JSON
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

// Profile shares its ID with the auth identity.
type Profile struct {
	ID                 uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	FullName           string          `json:"full_name" gorm:"not null"`
	AliasName          *string         `json:"alias_name"`
	UseAliasForReviews *bool           `json:"use_alias_for_reviews"`
	Role               moderation.Role `json:"role" gorm:"type:varchar(20);not null;default:user"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// DisplayName is the name shown on reviews.
func (p *Profile) DisplayName() string {
	if p == nil {
		return "Anonymous"
	}
	if p.UseAliasForReviews != nil && *p.UseAliasForReviews && p.AliasName != nil && strings.TrimSpace(*p.AliasName) != "" {
		return *p.AliasName
	}
	if strings.TrimSpace(p.FullName) != "" {
		return p.FullName
	}
	return "Anonymous"
}

type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Token     string    `json:"token" gorm:"unique;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	IsRevoked bool      `json:"is_revoked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Foreign key
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate hook for password hashing
func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

type UpdateProfileRequest struct {
	FullName           string  `json:"full_name" binding:"required,min=2,max=100"`
	AliasName          *string `json:"alias_name" binding:"omitempty,max=50"`
	UseAliasForReviews *bool   `json:"use_alias_for_reviews"`
}
