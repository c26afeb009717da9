package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/types"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims carries the role only as a hint; the profile row is the authority.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

func generateToken(userID uuid.UUID, email, role, jwtSecret string, tokenType TokenType, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(ttl)

	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		Type:   string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationTime, nil
}

// Generate access token (short-lived: 15 minutes)
func GenerateAccessToken(userID uuid.UUID, email, role, jwtSecret string) (string, time.Time, error) {
	return generateToken(userID, email, role, jwtSecret, AccessToken, AccessTokenTTL)
}

// Generate refresh token (long-lived: 7 days)
func GenerateRefreshToken(userID uuid.UUID, email, role, jwtSecret string) (string, time.Time, error) {
	return generateToken(userID, email, role, jwtSecret, RefreshToken, RefreshTokenTTL)
}

// Generate both tokens
func GenerateTokenPair(userID uuid.UUID, email, role, jwtSecret string) (*types.TokenPair, error) {
	accessToken, accessExp, err := GenerateAccessToken(userID, email, role, jwtSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExp, err := GenerateRefreshToken(userID, email, role, jwtSecret)
	if err != nil {
		return nil, err
	}

	return &types.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp.Unix(),
		RefreshTokenExpiresAt: refreshExp.Unix(),
	}, nil
}

var ErrWrongTokenType = errors.New("wrong token type")

// ValidateToken checks the signature and time claims. Only HS256 is accepted.
func ValidateToken(tokenString, jwtSecret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseToken validates tokenString and requires it to be of the given type,
// so a refresh token never passes as an access token or the other way round.
func ParseToken(tokenString, jwtSecret string, want TokenType) (*Claims, error) {
	claims, err := ValidateToken(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != string(want) {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
