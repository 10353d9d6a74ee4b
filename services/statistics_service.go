package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

const uncategorized = "Uncategorized"

// StatisticsService computes read-only rollups over paid invoices and orders.
type StatisticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type Dashboard struct {
	SalesToday        decimal.Decimal `json:"sales_today"`
	SalesMonth        decimal.Decimal `json:"sales_month"`
	OrdersToday       int64           `json:"orders_today"`
	OrdersMonth       int64           `json:"orders_month"`
	ReservationsToday int64           `json:"reservations_today"`
	Clients           int64           `json:"clients"`
	Employees         int64           `json:"employees"`
	TablesAvailable   int64           `json:"tables_available"`
	TablesTotal       int64           `json:"tables_total"`
	StocksInAlert     int64           `json:"stocks_in_alert"`
}

type InvoiceSummary struct {
	ID            uint                  `json:"id"`
	OrderID       uint                  `json:"order_id"`
	Total         decimal.Decimal       `json:"total"`
	PaymentMethod *models.PaymentMethod `json:"payment_method,omitempty"`
	Time          string                `json:"time"`
}

type DailySales struct {
	Date         string           `json:"date"`
	Total        decimal.Decimal  `json:"total"`
	InvoiceCount int              `json:"invoice_count"`
	Invoices     []InvoiceSummary `json:"invoices"`
}

type DayTotal struct {
	Day          int             `json:"day"`
	Date         string          `json:"date"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoice_count"`
}

type MonthlySales struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoice_count"`
	Days         []DayTotal      `json:"days"`
}

type MonthTotal struct {
	Month        int             `json:"month"`
	Name         string          `json:"name"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoice_count"`
}

type YearlySales struct {
	Year         int             `json:"year"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoice_count"`
	Months       []MonthTotal    `json:"months"`
}

type PopularDish struct {
	DishID       uint            `json:"dish_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type CategoryRevenue struct {
	Category     string          `json:"category"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type PeakHour struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

type ServerPerformance struct {
	ServerID   uint            `json:"server_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	PaidOrders int             `json:"paid_orders"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func (s *StatisticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	dayStart, dayEnd := utils.DayRange(utils.DayOf(now))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	d := &Dashboard{}
	var err error
	if d.SalesToday, _, err = s.paidTotal(db, dayStart, dayEnd); err != nil {
		return nil, err
	}
	if d.SalesMonth, _, err = s.paidTotal(db, monthStart, monthEnd); err != nil {
		return nil, err
	}

	counts := []struct {
		dst   *int64
		model interface{}
		query string
		args  []interface{}
	}{
		{&d.OrdersToday, &models.Order{}, "created_at >= ? AND created_at < ?", []interface{}{dayStart, dayEnd}},
		{&d.OrdersMonth, &models.Order{}, "created_at >= ? AND created_at < ?", []interface{}{monthStart, monthEnd}},
		{&d.ReservationsToday, &models.Reservation{}, "reservation_date >= ? AND reservation_date < ? AND status <> ?",
			[]interface{}{dayStart, dayEnd, models.ReservationCancelled}},
		{&d.Clients, &models.Person{}, "kind = ?", []interface{}{models.KindClient}},
		{&d.Employees, &models.Person{}, "kind IN ?", []interface{}{[]models.PersonKind{models.KindServer, models.KindCook, models.KindManager}}},
		{&d.TablesAvailable, &models.Table{}, "status = ?", []interface{}{models.TableAvailable}},
		{&d.TablesTotal, &models.Table{}, "1 = 1", nil},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.query, c.args...).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	err = db.Model(&models.Stock{}).
		Joins("JOIN ingredients ON ingredients.id = stocks.ingredient_id").
		Where("stocks.quantity <= ingredients.alert_threshold").
		Count(&d.StocksInAlert).Error
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *StatisticsService) SalesByDay(ctx context.Context, date time.Time) (*DailySales, error) {
	start, end := utils.DayRange(utils.DayOf(date))
	invoices, err := s.paidInvoices(s.db.WithContext(ctx), start, end)
	if err != nil {
		return nil, err
	}

	res := &DailySales{Date: start.Format(utils.DateLayout), Total: decimal.Zero, Invoices: []InvoiceSummary{}}
	for _, inv := range invoices {
		res.Total = res.Total.Add(inv.TotalAmount)
		res.Invoices = append(res.Invoices, InvoiceSummary{
			ID:            inv.ID,
			OrderID:       inv.OrderID,
			Total:         inv.TotalAmount,
			PaymentMethod: inv.PaymentMethod,
			Time:          inv.Date.UTC().Format("15:04"),
		})
	}
	res.InvoiceCount = len(invoices)
	return res, nil
}

func (s *StatisticsService) SalesByMonth(ctx context.Context, year, month int) (*MonthlySales, error) {
	if month < 1 || month > 12 {
		return nil, utils.Invalidf("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	invoices, err := s.paidInvoices(s.db.WithContext(ctx), start, end)
	if err != nil {
		return nil, err
	}

	days := end.AddDate(0, 0, -1).Day()
	res := &MonthlySales{Year: year, Month: month, Total: decimal.Zero, Days: make([]DayTotal, days)}
	for i := range res.Days {
		res.Days[i] = DayTotal{Day: i + 1, Date: start.AddDate(0, 0, i).Format(utils.DateLayout), Total: decimal.Zero}
	}
	for _, inv := range invoices {
		day := &res.Days[inv.Date.UTC().Day()-1]
		day.Total = day.Total.Add(inv.TotalAmount)
		day.InvoiceCount++
		res.Total = res.Total.Add(inv.TotalAmount)
	}
	res.InvoiceCount = len(invoices)
	return res, nil
}

func (s *StatisticsService) SalesByYear(ctx context.Context, year int) (*YearlySales, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	invoices, err := s.paidInvoices(s.db.WithContext(ctx), start, start.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	res := &YearlySales{Year: year, Total: decimal.Zero, Months: make([]MonthTotal, 12)}
	for i := range res.Months {
		res.Months[i] = MonthTotal{Month: i + 1, Name: time.Month(i + 1).String(), Total: decimal.Zero}
	}
	for _, inv := range invoices {
		m := &res.Months[inv.Date.UTC().Month()-1]
		m.Total = m.Total.Add(inv.TotalAmount)
		m.InvoiceCount++
		res.Total = res.Total.Add(inv.TotalAmount)
	}
	res.InvoiceCount = len(invoices)
	return res, nil
}

// PopularDishes ranks dishes by quantity ordered, then by name.
func (s *StatisticsService) PopularDishes(ctx context.Context, limit int) ([]PopularDish, error) {
	if limit <= 0 {
		limit = 10
	}
	lines, err := s.lines(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	byDish := map[uint]*PopularDish{}
	for _, line := range lines {
		p, ok := byDish[line.DishID]
		if !ok {
			p = &PopularDish{DishID: line.DishID, Category: uncategorized, Revenue: decimal.Zero}
			if line.Dish != nil {
				p.Name = line.Dish.Name
				if line.Dish.Category != nil {
					p.Category = *line.Dish.Category
				}
			}
			byDish[line.DishID] = p
		}
		p.QuantitySold += line.Quantity
		p.Revenue = p.Revenue.Add(line.Subtotal())
	}

	out := make([]PopularDish, 0, len(byDish))
	for _, p := range byDish {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *StatisticsService) RevenueByCategory(ctx context.Context) ([]CategoryRevenue, error) {
	lines, err := s.lines(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryRevenue{}
	for _, line := range lines {
		category := uncategorized
		if line.Dish != nil && line.Dish.Category != nil {
			category = *line.Dish.Category
		}
		c, ok := byCategory[category]
		if !ok {
			c = &CategoryRevenue{Category: category, Revenue: decimal.Zero}
			byCategory[category] = c
		}
		c.QuantitySold += line.Quantity
		c.Revenue = c.Revenue.Add(line.Subtotal())
	}

	out := make([]CategoryRevenue, 0, len(byCategory))
	for _, c := range byCategory {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// PeakHours counts orders opened in each hour of the day, busiest first.
func (s *StatisticsService) PeakHours(ctx context.Context) ([]PeakHour, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Select("id", "created_at").Find(&orders).Error; err != nil {
		return nil, err
	}

	counts := map[int]int{}
	for _, o := range orders {
		counts[o.CreatedAt.UTC().Hour()]++
	}
	out := make([]PeakHour, 0, len(counts))
	for hour, n := range counts {
		out = append(out, PeakHour{Hour: hour, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}

func (s *StatisticsService) ServerPerformance(ctx context.Context) ([]ServerPerformance, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Server").Where("server_id IS NOT NULL").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	byServer := map[uint]*ServerPerformance{}
	for _, o := range orders {
		p, ok := byServer[*o.ServerID]
		if !ok {
			p = &ServerPerformance{ServerID: *o.ServerID, Revenue: decimal.Zero}
			if o.Server != nil {
				p.Name = o.Server.FullName()
			}
			byServer[*o.ServerID] = p
		}
		p.Orders++
		if o.Status == models.OrderPaid {
			p.PaidOrders++
			p.Revenue = p.Revenue.Add(o.Total)
		}
	}

	out := make([]ServerPerformance, 0, len(byServer))
	for _, p := range byServer {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ServerID < out[j].ServerID
	})
	return out, nil
}

func (s *StatisticsService) paidInvoices(db *gorm.DB, start, end time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := db.Where("status = ? AND issued_at >= ? AND issued_at < ?", models.InvoicePaid, start, end).
		Order("issued_at").Find(&invoices).Error
	return invoices, err
}

func (s *StatisticsService) paidTotal(db *gorm.DB, start, end time.Time) (decimal.Decimal, int, error) {
	invoices, err := s.paidInvoices(db, start, end)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.TotalAmount)
	}
	return total, len(invoices), nil
}

func (s *StatisticsService) lines(db *gorm.DB) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := db.Preload("Dish").Find(&lines).Error
	return lines, err
}
