package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// RenderMonthlyChart draws one bar per day of the month as a PNG.
func RenderMonthlyChart(w io.Writer, sales *MonthlySales) error {
	if sales.Total.IsZero() {
		return utils.Invalidf("no paid sales in %04d-%02d", sales.Year, sales.Month)
	}

	bars := make([]chart.Value, 0, len(sales.Days))
	for _, day := range sales.Days {
		value, _ := day.Total.Float64()
		bars = append(bars, chart.Value{Label: strconv.Itoa(day.Day), Value: value})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Sales %04d-%02d", sales.Year, sales.Month),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1600,
		Height:     512,
		BarWidth:   30,
		BarSpacing: 10,
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}
