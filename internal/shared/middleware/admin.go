package middleware

import (
	"github.com/gin-gonic/gin"

	"nft-market-backend/internal/shared/response"
)

// Admin checks that the authenticated user carries the admin role.
// Must run after Auth.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, _ := c.Get(CtxRole)
		if role, ok := roleValue.(string); !ok || role != "admin" {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
