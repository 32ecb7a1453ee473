package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nft-market-backend/internal/shared/response"
	"nft-market-backend/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// Auth verifies the Bearer token and stores the caller identity
// on the gin context. Rejects the request when the token is
// missing or invalid.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, manager)
		if !ok {
			response.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user id in token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is
// present but lets anonymous requests through. Read paths use this
// to restrict anonymous callers to published material.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, manager); ok {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				c.Set(CtxUserID, userID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}

// UserID returns the authenticated caller id, or uuid.Nil for
// anonymous requests.
func UserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
