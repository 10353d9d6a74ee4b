package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type AuthController struct {
	Accounts *services.AccountService
	Tokens   *utils.TokenIssuer
}

func NewAuthController(accounts *services.AccountService, tokens *utils.TokenIssuer) *AuthController {
	return &AuthController{Accounts: accounts, Tokens: tokens}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := ac.Accounts.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.InfoLogger.Printf("New account registered: %s (%s)", res.Email, res.Role)
	utils.RespondCreated(c, "/api/auth/me", "Account registered successfully", res)
}

// CreateAccount lets a manager open staff accounts.
func (ac *AuthController) CreateAccount(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := ac.Accounts.CreateAccount(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.InfoLogger.Printf("Account created by manager %d: %s (%s)", c.GetUint(CtxAccountID), res.Email, res.Role)
	utils.RespondCreated(c, fmt.Sprintf("/api/employees/%d", derefID(res.PersonID)), "Account created successfully", res)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := ac.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", res)
}

func (ac *AuthController) Me(c *gin.Context) {
	accountID := c.GetUint(CtxAccountID)
	res, err := ac.Accounts.Me(c.Request.Context(), accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current account", res)
}

// Logout revokes the presented token until it expires.
func (ac *AuthController) Logout(c *gin.Context) {
	value, _ := c.Get(CtxClaims)
	claims, ok := value.(*utils.Claims)
	if !ok {
		utils.RespondError(c, utils.Unauthorizedf("missing token"))
		return
	}
	if err := ac.Tokens.Revoke(c.Request.Context(), claims); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
