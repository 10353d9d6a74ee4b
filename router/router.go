package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/config"
	"github.com/yeremiapane/restaurant-manager/controllers"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/middlewares"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/pdf"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// Options carries the collaborators built in main. Notifier defaults to
// the hub alone, Renderer to the PDF renderer configured from Config.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   *utils.TokenIssuer
	Hub      *kds.Hub
	Notifier kds.Notifier
	Renderer services.InvoiceRenderer
}

func SetupRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	if opts.Hub == nil {
		opts.Hub = kds.NewHub()
	}
	if opts.Notifier == nil {
		opts.Notifier = opts.Hub
	}
	if opts.Renderer == nil {
		opts.Renderer = pdf.NewInvoiceRenderer(pdf.Restaurant{
			Name:    cfg.RestaurantName,
			Address: cfg.RestaurantAddress,
			Phone:   cfg.RestaurantPhone,
		}, cfg.VATRate)
	}
	db, notifier := opts.DB, opts.Notifier

	people := services.NewPersonService(db)
	tableCtrl := controllers.NewTableController(services.NewTableService(db, notifier))
	clientCtrl := controllers.NewClientController(people)
	employeeCtrl := controllers.NewEmployeeController(people)
	dishCtrl := controllers.NewDishController(services.NewDishService(db))
	stockCtrl := controllers.NewStockController(services.NewStockService(db, notifier))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(db, notifier))
	invoiceCtrl := controllers.NewInvoiceController(services.NewBillingService(db, notifier, opts.Renderer))
	reservationCtrl := controllers.NewReservationController(services.NewReservationService(db))
	planningCtrl := controllers.NewPlanningController(services.NewPlanningService(db))
	statsCtrl := controllers.NewStatisticsController(services.NewStatisticsService(db))
	authCtrl := controllers.NewAuthController(services.NewAccountService(db, opts.Tokens), opts.Tokens)
	kitchenCtrl := controllers.NewKitchenController(opts.Hub, cfg.CORSOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	staff := middlewares.RequireRoles(models.StaffRoles...)
	manager := middlewares.RequireRoles(models.RoleManager)
	floor := middlewares.RequireRoles(models.RoleServer, models.RoleManager)
	kitchen := middlewares.RequireRoles(models.RoleCook, models.RoleManager)

	r.GET("/ws/kitchen", middlewares.WebSocketAuthMiddleware(opts.Tokens), staff, kitchenCtrl.KitchenFeed)

	api := r.Group("/api")

	loginLimiter := middlewares.NewLoginRateLimiter(cfg.LoginRate)
	auth := api.Group("/auth")
	{
		auth.POST("/register", loginLimiter.RateLimit(), authCtrl.Register)
		auth.POST("/login", loginLimiter.RateLimit(), authCtrl.Login)
	}

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware(opts.Tokens))
	{
		protected.GET("/auth/me", authCtrl.Me)
		protected.POST("/auth/logout", authCtrl.Logout)
		protected.POST("/auth/accounts", manager, authCtrl.CreateAccount)

		tables := protected.Group("/tables")
		tables.GET("", tableCtrl.GetAllTables)
		tables.GET("/available", tableCtrl.GetAvailableTables)
		tables.GET("/:id", tableCtrl.GetTable)
		tables.POST("", manager, tableCtrl.CreateTable)
		tables.PUT("/:id", manager, tableCtrl.UpdateTable)
		tables.PATCH("/:id/status", floor, tableCtrl.UpdateTableStatus)
		tables.DELETE("/:id", manager, tableCtrl.DeleteTable)

		clients := protected.Group("/clients", floor)
		clients.GET("", clientCtrl.GetAllClients)
		clients.GET("/:id", clientCtrl.GetClient)
		clients.GET("/:id/reservations", clientCtrl.GetClientReservations)
		clients.GET("/:id/orders", clientCtrl.GetClientOrders)
		clients.POST("", clientCtrl.CreateClient)
		clients.PUT("/:id", clientCtrl.UpdateClient)
		clients.DELETE("/:id", clientCtrl.DeleteClient)

		employees := protected.Group("/employees", manager)
		employees.GET("", employeeCtrl.GetAllEmployees)
		employees.GET("/servers", employeeCtrl.GetServers)
		employees.GET("/cooks", employeeCtrl.GetCooks)
		employees.GET("/managers", employeeCtrl.GetManagers)
		employees.GET("/:id", employeeCtrl.GetEmployee)
		employees.GET("/:id/planning", employeeCtrl.GetEmployeePlanning)
		employees.POST("/server", employeeCtrl.CreateEmployee(models.KindServer))
		employees.POST("/cook", employeeCtrl.CreateEmployee(models.KindCook))
		employees.POST("/manager", employeeCtrl.CreateEmployee(models.KindManager))
		employees.PUT("/:id", employeeCtrl.UpdateEmployee)
		employees.DELETE("/:id", employeeCtrl.DeleteEmployee)

		dishes := protected.Group("/dishes")
		dishes.GET("", dishCtrl.GetAllDishes)
		dishes.GET("/available", dishCtrl.GetAvailableDishes)
		dishes.GET("/category/:category", dishCtrl.GetDishesByCategory)
		dishes.GET("/:id", dishCtrl.GetDish)
		dishes.POST("", manager, dishCtrl.CreateDish)
		dishes.PUT("/:id", manager, dishCtrl.UpdateDish)
		dishes.PATCH("/:id/availability", manager, dishCtrl.UpdateDishAvailability)
		dishes.POST("/:id/ingredients", manager, dishCtrl.AddDishIngredient)
		dishes.DELETE("/:id", manager, dishCtrl.DeleteDish)

		ingredients := protected.Group("/ingredients", kitchen)
		ingredients.GET("", stockCtrl.GetAllIngredients)
		ingredients.GET("/alerts", stockCtrl.GetIngredientAlerts)
		ingredients.GET("/:id", stockCtrl.GetIngredient)
		ingredients.POST("", stockCtrl.CreateIngredient)
		ingredients.PUT("/:id", stockCtrl.UpdateIngredient)
		ingredients.DELETE("/:id", stockCtrl.DeleteIngredient)

		stocks := protected.Group("/stocks", kitchen)
		stocks.GET("", stockCtrl.GetAllStocks)
		stocks.GET("/low", stockCtrl.GetLowStocks)
		stocks.GET("/ingredient/:ingredient_id", stockCtrl.GetStockByIngredient)
		stocks.GET("/:id", stockCtrl.GetStock)
		stocks.PATCH("/:id/add", stockCtrl.AddStock)
		stocks.PATCH("/:id/withdraw", stockCtrl.WithdrawStock)
		stocks.PUT("/:id", stockCtrl.SetStock)

		orders := protected.Group("/orders", staff)
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/in-progress", orderCtrl.GetOrdersInProgress)
		orders.GET("/table/:table_id", orderCtrl.GetOrdersByTable)
		orders.GET("/:id", orderCtrl.GetOrder)
		orders.POST("", floor, orderCtrl.CreateOrder)
		orders.POST("/:id/lines", floor, orderCtrl.AddOrderLine)
		orders.DELETE("/:id/lines/:line_id", floor, orderCtrl.RemoveOrderLine)
		orders.PATCH("/:id/prepare", kitchen, orderCtrl.PrepareOrder)
		orders.PATCH("/:id/ready", kitchen, orderCtrl.MarkOrderReady)
		orders.PATCH("/:id/serve", floor, orderCtrl.ServeOrder)
		orders.PATCH("/:id/status", orderCtrl.UpdateOrderStatus)
		orders.DELETE("/:id", manager, orderCtrl.DeleteOrder)

		orderLines := protected.Group("/orderlines", staff)
		orderLines.GET("", orderCtrl.GetOrderLines)
		orderLines.GET("/:id", orderCtrl.GetOrderLine)

		invoices := protected.Group("/invoices", floor)
		invoices.GET("", invoiceCtrl.GetAllInvoices)
		invoices.GET("/:id", invoiceCtrl.GetInvoice)
		invoices.GET("/:id/pdf", invoiceCtrl.DownloadInvoicePDF)
		invoices.POST("/order/:order_id", invoiceCtrl.GenerateInvoice)
		invoices.PATCH("/:id/pay", invoiceCtrl.PayInvoice)
		invoices.DELETE("/:id", invoiceCtrl.DeleteInvoice)

		reservations := protected.Group("/reservations")
		reservations.GET("", reservationCtrl.GetAllReservations)
		reservations.GET("/date/:date", reservationCtrl.GetReservationsByDate)
		reservations.GET("/:id", reservationCtrl.GetReservation)
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.PATCH("/:id/cancel", reservationCtrl.CancelReservation)
		reservations.PUT("/:id", floor, reservationCtrl.UpdateReservation)
		reservations.PATCH("/:id/confirm", floor, reservationCtrl.ConfirmReservation)
		reservations.DELETE("/:id", floor, reservationCtrl.DeleteReservation)

		plannings := protected.Group("/plannings", staff)
		plannings.GET("", planningCtrl.GetAllPlannings)
		plannings.GET("/date/:date", planningCtrl.GetPlanningsByDate)
		plannings.GET("/week/:date", planningCtrl.GetPlanningsByWeek)
		plannings.GET("/:id", planningCtrl.GetPlanning)
		plannings.POST("", manager, planningCtrl.CreatePlanning)
		plannings.PUT("/:id", manager, planningCtrl.UpdatePlanning)
		plannings.DELETE("/:id", manager, planningCtrl.DeletePlanning)

		stats := protected.Group("/statistics", manager)
		stats.GET("/dashboard", statsCtrl.GetDashboard)
		stats.GET("/sales/day", statsCtrl.GetSalesByDay)
		stats.GET("/sales/month", statsCtrl.GetSalesByMonth)
		stats.GET("/sales/month/chart", statsCtrl.GetMonthlySalesChart)
		stats.GET("/sales/year", statsCtrl.GetSalesByYear)
		stats.GET("/popular-dishes", statsCtrl.GetPopularDishes)
		stats.GET("/revenue-by-category", statsCtrl.GetRevenueByCategory)
		stats.GET("/peak-hours", statsCtrl.GetPeakHours)
		stats.GET("/server-performance", statsCtrl.GetServerPerformance)
	}

	return r
}
