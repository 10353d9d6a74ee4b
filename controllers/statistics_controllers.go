package controllers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type StatisticsController struct {
	Stats *services.StatisticsService
}

func NewStatisticsController(stats *services.StatisticsService) *StatisticsController {
	return &StatisticsController{Stats: stats}
}

func (sc *StatisticsController) GetDashboard(c *gin.Context) {
	dashboard, err := sc.Stats.Dashboard(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", dashboard)
}

// GetSalesByDay reads ?date=YYYY-MM-DD, today by default.
func (sc *StatisticsController) GetSalesByDay(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		date = time.Time(d)
	}
	sales, err := sc.Stats.SalesByDay(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily sales", sales)
}

func (sc *StatisticsController) GetSalesByMonth(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	sales, err := sc.Stats.SalesByMonth(c.Request.Context(), year, month)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Monthly sales", sales)
}

func (sc *StatisticsController) GetMonthlySalesChart(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	sales, err := sc.Stats.SalesByMonth(c.Request.Context(), year, month)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.RenderMonthlyChart(&buf, sales); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (sc *StatisticsController) GetSalesByYear(c *gin.Context) {
	now := time.Now().UTC()
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return
	}
	sales, err := sc.Stats.SalesByYear(c.Request.Context(), year)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Yearly sales", sales)
}

func (sc *StatisticsController) GetPopularDishes(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}
	dishes, err := sc.Stats.PopularDishes(c.Request.Context(), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Popular dishes", dishes)
}

func (sc *StatisticsController) GetRevenueByCategory(c *gin.Context) {
	revenue, err := sc.Stats.RevenueByCategory(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue by category", revenue)
}

func (sc *StatisticsController) GetPeakHours(c *gin.Context) {
	hours, err := sc.Stats.PeakHours(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Peak hours", hours)
}

func (sc *StatisticsController) GetServerPerformance(c *gin.Context) {
	perf, err := sc.Stats.ServerPerformance(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Server performance", perf)
}

func yearMonth(c *gin.Context) (int, int, bool) {
	now := time.Now().UTC()
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return 0, 0, false
	}
	month, ok := queryInt(c, "month", int(now.Month()))
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(c, utils.Invalidf("invalid %s %q", name, raw))
		return 0, false
	}
	return v, true
}
