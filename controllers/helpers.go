package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// Context keys set by the auth middleware.
const (
	CtxAccountID = "account_id"
	CtxRole      = "role"
	CtxClaims    = "claims"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, utils.Invalidf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, utils.Invalidf("invalid request body: %v", err))
		return false
	}
	return true
}

func currentRole(c *gin.Context) models.Role {
	role, _ := c.Get(CtxRole)
	r, _ := role.(models.Role)
	return r
}
