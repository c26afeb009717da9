package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

const callerKey = "caller"

// RoleResolver is the server-side role check run on every authenticated
// request.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID uuid.UUID) (moderation.Role, error)
}

// AuthMiddleware requires a valid access token.
func AuthMiddleware(cfg *config.Config, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}
		if !authenticate(c, cfg, roles) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid is still rejected.
func OptionalAuth(cfg *config.Config, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(callerKey, moderation.Anonymous())
			c.Next()
			return
		}
		if !authenticate(c, cfg, roles) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.Config, roles RoleResolver) bool {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		utils.SendUnauthorized(c, "Bearer token required")
		c.Abort()
		return false
	}

	claims, err := utils.ParseToken(tokenString, cfg.JWTSecret, utils.AccessToken)
	if err != nil {
		utils.SendUnauthorized(c, "Invalid token")
		c.Abort()
		return false
	}

	userID, err := claims.UserUUID()
	if err != nil {
		utils.SendUnauthorized(c, "Invalid token")
		c.Abort()
		return false
	}

	// the profile row decides the role, not the claim
	role, err := roles.ResolveRole(c.Request.Context(), userID)
	if errors.Is(err, services.ErrProfileNotFound) {
		utils.SendUnauthorized(c, "Account not found")
		c.Abort()
		return false
	}
	if err != nil {
		utils.SendInternalError(c, "Failed to resolve role", err)
		c.Abort()
		return false
	}

	c.Set(callerKey, moderation.NewCaller(userID, role))
	c.Set("user_email", claims.Email)
	return true
}

// CallerFrom returns the identity set by the auth middleware, anonymous when
// there is none.
func CallerFrom(c *gin.Context) moderation.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(moderation.Caller); ok {
			return caller
		}
	}
	return moderation.Anonymous()
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.Authenticated() {
			utils.SendUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !caller.IsAdmin() {
			utils.SendForbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
