package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/alerts"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/reports"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	ExpenseUC  *usecase.ExpenseUseCase
	Checkout   *sales.ProcessSaleUseCase
	History    *sales.HistoryUseCase
	AlertUC    *alerts.UseCase
	ReportUC   *reports.UseCase
	Restock    *reports.ReplenishmentUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleAdmin, entity.RoleCashier)
	admin := RequireRole(entity.RoleAdmin)

	// Sales: checkout e historial
	saleHandler := NewSaleHandler(deps.Checkout, deps.History)
	salesGroup := protected.Group("/sales", staff)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Products: lectura para todos, escritura solo admin
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", staff, productHandler.List)
	products.Get("/barcode/:code", staff, productHandler.GetByBarcode)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Post("/", admin, productHandler.Create)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", staff, categoryHandler.List)
	categories.Get("/:id", staff, categoryHandler.GetByID)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Put("/:id", admin, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", staff, supplierHandler.List)
	suppliers.Get("/:id", staff, supplierHandler.GetByID)
	suppliers.Post("/", admin, supplierHandler.Create)
	suppliers.Put("/:id", admin, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	// Alerts
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertsGroup := protected.Group("/alerts")
	alertsGroup.Get("/", staff, alertHandler.List)
	alertsGroup.Get("/count", staff, alertHandler.Count)
	alertsGroup.Get("/live", staff, alertHandler.Live)
	alertsGroup.Patch("/read-all", staff, alertHandler.MarkAllRead)
	alertsGroup.Patch("/:id/read", staff, alertHandler.MarkRead)
	alertsGroup.Patch("/:id/resolve", staff, alertHandler.Resolve)
	alertsGroup.Post("/sweep", admin, alertHandler.Sweep)
	alertsGroup.Post("/evaluate", admin, alertHandler.Evaluate)

	// Solo admin
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses := protected.Group("/expenses", admin)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Delete("/:id", expenseHandler.Delete)

	reportHandler := NewReportHandler(deps.ReportUC, deps.Restock)
	reportsGroup := protected.Group("/reports", admin)
	reportsGroup.Get("/monthly-profit", reportHandler.MonthlyProfit)
	reportsGroup.Get("/top-products", reportHandler.TopProducts)
	reportsGroup.Get("/top-categories", reportHandler.TopCategories)
	reportsGroup.Get("/top-cashiers", reportHandler.TopCashiers)
	reportsGroup.Get("/daily-summary", reportHandler.DailySummary)
	reportsGroup.Get("/dashboard", reportHandler.Dashboard)
	reportsGroup.Get("/replenishment", reportHandler.Replenishment)

	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", admin)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
