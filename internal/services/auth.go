package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/types"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Signup creates the login and its profile together. New accounts are always
// plain users; admins are promoted in the database.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*types.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = utils.SanitizeString(req.FullName)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrUserExists
	}

	user := models.User{
		Email:    req.Email,
		Password: req.Password, // hashed in BeforeCreate
		IsActive: true,
	}
	var profile models.Profile
	var pair *types.TokenPair

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile = models.Profile{
			ID:       user.ID,
			FullName: req.FullName,
			Role:     moderation.RoleUser,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		var err error
		pair, err = s.issueTokens(tx, &user, profile.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: *pair, User: user, Profile: &profile}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*types.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var pair *types.TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// one live session per account
		if err := tx.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("is_revoked", true).Error; err != nil {
			return err
		}
		var err error
		pair, err = s.issueTokens(tx, &user, profile.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: *pair, User: user, Profile: profile}, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair
// issued in the same transaction.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) (*types.AuthResponse, error) {
	if _, err := utils.ParseToken(req.RefreshToken, s.jwtSecret, utils.RefreshToken); err != nil {
		return nil, ErrInvalidToken
	}

	var stored models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
		First(&stored).Error
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", stored.UserID, true).First(&user).Error; err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	profile, err := s.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var pair *types.TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND is_revoked = ?", stored.ID, false).
			Update("is_revoked", true)
		if res.Error != nil {
			return res.Error
		}
		// lost a race with a concurrent refresh of the same token
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		var err error
		pair, err = s.issueTokens(tx, &user, profile.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: *pair, User: user, Profile: profile}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

// UpdateProfile edits the caller's own display settings. The role is not
// writable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.Profile, error) {
	req.FullName = utils.SanitizeString(req.FullName)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"full_name": req.FullName}
	if req.AliasName != nil {
		alias := utils.SanitizeString(*req.AliasName)
		if alias == "" {
			updates["alias_name"] = nil
		} else {
			updates["alias_name"] = alias
		}
	}
	if req.UseAliasForReviews != nil {
		updates["use_alias_for_reviews"] = *req.UseAliasForReviews
	}

	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// ResolveRole reads the role from the profile row. This is the only check
// that grants admin rights; token claims are never trusted for it.
func (s *AuthService) ResolveRole(ctx context.Context, userID uuid.UUID) (moderation.Role, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Select("profiles.role").
		Joins("JOIN users ON users.id = profiles.id AND users.is_active = ?", true).
		Where("profiles.id = ?", userID).
		First(&profile).Error
	if err != nil {
		return moderation.RoleAnonymous, notFound(err, ErrProfileNotFound)
	}
	if profile.Role == moderation.RoleAdmin {
		return moderation.RoleAdmin, nil
	}
	return moderation.RoleUser, nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be used.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (s *AuthService) issueTokens(tx *gorm.DB, user *models.User, role moderation.Role) (*types.TokenPair, error) {
	pair, err := utils.GenerateTokenPair(user.ID, user.Email, string(role), s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	refresh := models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: time.Unix(pair.RefreshTokenExpiresAt, 0),
	}
	if err := tx.Create(&refresh).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return pair, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
