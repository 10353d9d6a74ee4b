package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// WebSocketAuthMiddleware reads the token from ?token= since browsers
// cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.AbortWithError(c, utils.Unauthorizedf("token missing"))
			return
		}
		authenticate(c, tokens, token)
	}
}
