package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// paidOrder records an order for one line of dish, invoiced and paid at issued.
func paidOrder(t *testing.T, db *gorm.DB, dish *models.Dish, qty int, serverID *uint, issued time.Time) {
	t.Helper()
	total := dish.Price.Mul(decimal.NewFromInt(int64(qty)))
	order := models.Order{Status: models.OrderPaid, Total: total, ServerID: serverID, CreatedAt: issued}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderLine{OrderID: order.ID, DishID: dish.ID, Quantity: qty, UnitPrice: dish.Price}).Error)
	method := models.PaymentCard
	require.NoError(t, db.Create(&models.Invoice{
		OrderID: order.ID, Date: issued, TotalAmount: total, Status: models.InvoicePaid, PaymentMethod: &method,
	}).Error)
}

func TestSalesRollups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewStatisticsService(db)
	burger := mustDish(t, db, "Burger", "10.00")

	paidOrder(t, db, burger, 2, nil, time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC))
	paidOrder(t, db, burger, 1, nil, time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC))
	paidOrder(t, db, burger, 3, nil, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	unpaid := models.Order{Status: models.OrderServed, Total: decimal.NewFromInt(99)}
	require.NoError(t, db.Create(&unpaid).Error)
	require.NoError(t, db.Create(&models.Invoice{
		OrderID: unpaid.ID, Date: time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC),
		TotalAmount: unpaid.Total, Status: models.InvoiceUnpaid,
	}).Error)

	day, err := svc.SalesByDay(ctx, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", day.Date)
	assert.Equal(t, 2, day.InvoiceCount)
	assert.True(t, decimal.NewFromInt(30).Equal(day.Total), day.Total.String())

	month, err := svc.SalesByMonth(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Len(t, month.Days, 31)
	assert.True(t, decimal.NewFromInt(30).Equal(month.Days[4].Total))
	assert.True(t, month.Days[0].Total.IsZero())
	assert.True(t, decimal.NewFromInt(30).Equal(month.Total))

	_, err = svc.SalesByMonth(ctx, 2024, 13)
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	year, err := svc.SalesByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, year.InvoiceCount)
	assert.True(t, decimal.NewFromInt(60).Equal(year.Total))
	assert.True(t, decimal.NewFromInt(30).Equal(year.Months[3].Total))
	assert.Equal(t, "April", year.Months[3].Name)

	var png bytes.Buffer
	require.NoError(t, RenderMonthlyChart(&png, month))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	empty, err := svc.SalesByMonth(ctx, 2024, 1)
	require.NoError(t, err)
	assert.True(t, utils.IsKind(RenderMonthlyChart(&png, empty), utils.KindInvalid))
}

func TestDishAndServerRankings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewStatisticsService(db)
	mains, desserts := "Mains", "Desserts"
	burger := &models.Dish{Name: "Burger", Price: decimal.NewFromInt(10), Category: &mains, Available: true}
	cake := &models.Dish{Name: "Cake", Price: decimal.NewFromInt(5), Category: &desserts, Available: true}
	soup := mustDish(t, db, "Soup", "4.00")
	require.NoError(t, db.Create(burger).Error)
	require.NoError(t, db.Create(cake).Error)
	server := mustPerson(t, db, models.KindServer, "Bob")

	issued := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	paidOrder(t, db, burger, 1, &server.ID, issued)
	paidOrder(t, db, cake, 4, &server.ID, issued)
	paidOrder(t, db, soup, 2, nil, issued)

	popular, err := svc.PopularDishes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Cake", popular[0].Name)
	assert.Equal(t, 4, popular[0].QuantitySold)
	assert.Equal(t, "Soup", popular[1].Name)

	categories, err := svc.RevenueByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Desserts", categories[0].Category)
	assert.Equal(t, "Uncategorized", categories[2].Category)

	perf, err := svc.ServerPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 2, perf[0].PaidOrders)
	assert.True(t, decimal.NewFromInt(30).Equal(perf[0].Revenue))
	assert.Equal(t, "Bob Test", perf[0].Name)

	hours, err := svc.PeakHours(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, hours)
	assert.Equal(t, 3, hours[0].Orders)
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewStatisticsService(db)
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	burger := mustDish(t, db, "Burger", "10.00")
	mustTable(t, db, 1, 2)
	mustPerson(t, db, models.KindClient, "Alice")
	mustPerson(t, db, models.KindCook, "Remy")
	_, err := NewStockService(db, kds.Nop).CreateIngredient(ctx, IngredientInput{Name: "Flour", AlertThreshold: 5})
	require.NoError(t, err)

	paidOrder(t, db, burger, 1, nil, now.Add(-time.Hour))
	paidOrder(t, db, burger, 2, nil, now.AddDate(0, 0, -3))

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(d.SalesToday), d.SalesToday.String())
	assert.True(t, decimal.NewFromInt(30).Equal(d.SalesMonth), d.SalesMonth.String())
	assert.EqualValues(t, 1, d.Clients)
	assert.EqualValues(t, 1, d.Employees)
	assert.EqualValues(t, 1, d.TablesAvailable)
	assert.EqualValues(t, 1, d.StocksInAlert)
}
