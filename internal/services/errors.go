package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrCollegeNotFound = errors.New("college not found")
	ErrHostelNotFound  = errors.New("hostel not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrProfileNotFound = errors.New("profile not found")

	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// notFound maps gorm's missing-row error to the service sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
