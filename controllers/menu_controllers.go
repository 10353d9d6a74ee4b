package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type DishController struct {
	Dishes *services.DishService
}

func NewDishController(dishes *services.DishService) *DishController {
	return &DishController{Dishes: dishes}
}

func (dc *DishController) GetAllDishes(c *gin.Context) {
	dishes, err := dc.Dishes.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (dc *DishController) GetAvailableDishes(c *gin.Context) {
	dishes, err := dc.Dishes.Available(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of available dishes", dishes)
}

func (dc *DishController) GetDishesByCategory(c *gin.Context) {
	dishes, err := dc.Dishes.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes in category", dishes)
}

func (dc *DishController) GetDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dish, err := dc.Dishes.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish details", dish)
}

func (dc *DishController) CreateDish(c *gin.Context) {
	var req services.DishInput
	if !bindJSON(c, &req) {
		return
	}
	dish, err := dc.Dishes.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.InfoLogger.Printf("New dish created: %s (price=%s)", dish.Name, dish.Price.StringFixed(2))
	utils.RespondCreated(c, fmt.Sprintf("/api/dishes/%d", dish.ID), "Dish created successfully", dish)
}

func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.DishInput
	if !bindJSON(c, &req) {
		return
	}
	dish, err := dc.Dishes.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

func (dc *DishController) UpdateDishAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Available *bool `json:"available" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	dish, err := dc.Dishes.SetAvailability(c.Request.Context(), id, *body.Available)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish availability updated", dish)
}

func (dc *DishController) AddDishIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IngredientID uint `json:"ingredient_id" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	dish, err := dc.Dishes.AddIngredient(c.Request.Context(), id, body.IngredientID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient added to dish", dish)
}

func (dc *DishController) DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := dc.Dishes.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", nil)
}
