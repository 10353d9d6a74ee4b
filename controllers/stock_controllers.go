package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// StockController serves both ingredients and their stock rows.
type StockController struct {
	Stocks *services.StockService
}

func NewStockController(stocks *services.StockService) *StockController {
	return &StockController{Stocks: stocks}
}

func (sc *StockController) GetAllIngredients(c *gin.Context) {
	ingredients, err := sc.Stocks.ListIngredients(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", ingredients)
}

func (sc *StockController) GetIngredientAlerts(c *gin.Context) {
	ingredients, err := sc.Stocks.IngredientsInAlert(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredients in alert", ingredients)
}

func (sc *StockController) GetIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ingredient, err := sc.Stocks.GetIngredient(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient details", ingredient)
}

func (sc *StockController) CreateIngredient(c *gin.Context) {
	var req services.IngredientInput
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := sc.Stocks.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, fmt.Sprintf("/api/ingredients/%d", ingredient.ID), "Ingredient created successfully", ingredient)
}

func (sc *StockController) UpdateIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.IngredientInput
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := sc.Stocks.UpdateIngredient(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient updated", ingredient)
}

func (sc *StockController) DeleteIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := sc.Stocks.DeleteIngredient(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient deleted", nil)
}

func (sc *StockController) GetAllStocks(c *gin.Context) {
	stocks, err := sc.Stocks.ListStocks(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of stocks", stocks)
}

func (sc *StockController) GetLowStocks(c *gin.Context) {
	stocks, err := sc.Stocks.LowStocks(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of low stocks", stocks)
}

func (sc *StockController) GetStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	stock, err := sc.Stocks.GetStock(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock details", stock)
}

func (sc *StockController) GetStockByIngredient(c *gin.Context) {
	id, ok := paramID(c, "ingredient_id")
	if !ok {
		return
	}
	stock, err := sc.Stocks.StockByIngredient(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock details", stock)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (sc *StockController) AddStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req quantityRequest
	if !bindJSON(c, &req) {
		return
	}
	stock, err := sc.Stocks.Add(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock added", stock)
}

func (sc *StockController) WithdrawStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req quantityRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := sc.Stocks.Withdraw(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	message := "Stock withdrawn"
	if res.Alert {
		message = res.Message
	}
	utils.RespondJSON(c, http.StatusOK, message, res)
}

func (sc *StockController) SetStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req quantityRequest
	if !bindJSON(c, &req) {
		return
	}
	stock, err := sc.Stocks.Set(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock updated", stock)
}
