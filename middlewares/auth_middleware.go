package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/controllers"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// AuthMiddleware requires a valid bearer token and exposes its claims.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, utils.Unauthorizedf("authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithError(c, utils.Unauthorizedf("invalid authorization format"))
			return
		}

		authenticate(c, tokens, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenIssuer, tokenString string) {
	claims, err := tokens.Parse(c.Request.Context(), tokenString)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	accountID, err := claims.AccountID()
	if err != nil {
		utils.AbortWithError(c, utils.Unauthorizedf("%v", err))
		return
	}

	c.Set(controllers.CtxAccountID, accountID)
	c.Set(controllers.CtxRole, models.Role(claims.Role))
	c.Set(controllers.CtxClaims, claims)
	c.Next()
}
