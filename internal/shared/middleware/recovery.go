package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"nft-market-backend/internal/shared/response"
)

// Recovery turns a handler panic into a 500 instead of tearing down
// the connection, logging the stack for the postmortem.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				response.InternalServerError(c, "something went wrong")
				c.Abort()
			}
		}()

		c.Next()
	}
}
