package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/controllers"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		value, exists := c.Get(controllers.CtxRole)
		if !exists {
			utils.AbortWithError(c, utils.Unauthorizedf("unauthorized"))
			return
		}
		role, _ := value.(models.Role)
		if !allowed[role] {
			utils.AbortWithError(c, utils.Forbiddenf("role %s is not allowed here", role))
			return
		}
		c.Next()
	}
}
