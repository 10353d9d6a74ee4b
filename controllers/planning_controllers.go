package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/datatypes"
)

type PlanningController struct {
	Plannings *services.PlanningService
}

func NewPlanningController(plannings *services.PlanningService) *PlanningController {
	return &PlanningController{Plannings: plannings}
}

type shiftRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
}

func (r shiftRequest) input() (services.ShiftInput, error) {
	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return services.ShiftInput{}, err
	}
	start, err := utils.ParseClock(r.Start)
	if err != nil {
		return services.ShiftInput{}, err
	}
	end, err := utils.ParseClock(r.End)
	if err != nil {
		return services.ShiftInput{}, err
	}
	return services.ShiftInput{EmployeeID: r.EmployeeID, Date: date, Start: start, End: end}, nil
}

func (pc *PlanningController) GetAllPlannings(c *gin.Context) {
	shifts, err := pc.Plannings.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of plannings", shifts)
}

func (pc *PlanningController) GetPlanningsByDate(c *gin.Context) {
	pc.byDate(c, "List of plannings for date", pc.Plannings.ByDate)
}

func (pc *PlanningController) GetPlanningsByWeek(c *gin.Context) {
	pc.byDate(c, "List of plannings for week", pc.Plannings.Week)
}

func (pc *PlanningController) byDate(c *gin.Context, message string, fetch func(ctx context.Context, d datatypes.Date) ([]models.Planning, error)) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	shifts, err := fetch(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, shifts)
}

func (pc *PlanningController) GetPlanning(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	shift, err := pc.Plannings.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Planning details", shift)
}

func (pc *PlanningController) CreatePlanning(c *gin.Context) {
	var req shiftRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	shift, err := pc.Plannings.Create(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, fmt.Sprintf("/api/plannings/%d", shift.ID), "Planning created successfully", shift)
}

func (pc *PlanningController) UpdatePlanning(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req shiftRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	shift, err := pc.Plannings.Update(c.Request.Context(), id, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Planning updated", shift)
}

func (pc *PlanningController) DeletePlanning(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.Plannings.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Planning deleted", nil)
}
