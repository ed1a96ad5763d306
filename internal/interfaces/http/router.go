package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-saas-api/internal/application/auth"
	"github.com/jhoicas/erp-saas-api/internal/application/finance"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	OrderUC       *orders.OrderUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	UserUC        *usecase.UserUseCase
	CompanyUC     *usecase.CompanyUseCase
	FinanceUC     *finance.FinanceUseCase
	ReportUC      *finance.ReportUseCase
	ExpenseUC     *finance.ExpenseUseCase
	CompanyStatus companyChecker
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + empresa activa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveCompany(deps.CompanyStatus))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/profile", authHandler.Profile)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/cancellation-requests", orderHandler.PendingCancellations)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.Cancel)
	ordersGroup.Post("/:id/request-cancellation", orderHandler.RequestCancellation)
	ordersGroup.Post("/:id/resolve-cancellation", adminOnly, orderHandler.ResolveCancellation)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/upload", adminOnly, productHandler.Upload)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/", adminOnly, productHandler.Create)
	products.Patch("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Finances
	financeHandler := NewFinanceHandler(deps.FinanceUC, deps.ReportUC)
	finances := protected.Group("/finances")
	finances.Get("/summary", financeHandler.Summary)
	finances.Get("/history", financeHandler.History)
	finances.Get("/top-products", financeHandler.TopProducts)
	finances.Get("/categories", financeHandler.Categories)
	finances.Get("/expenses", financeHandler.Expenses)
	finances.Get("/report", adminOnly, financeHandler.Report)

	// Expenses
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses := protected.Group("/expenses")
	expenses.Get("/", expenseHandler.List)
	expenses.Post("/", adminOnly, expenseHandler.Create)
	expenses.Delete("/:id", adminOnly, expenseHandler.Delete)

	// Users (admin de la empresa)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Super-admin (plataforma)
	superAdminHandler := NewSuperAdminHandler(deps.CompanyUC)
	superAdmin := protected.Group("/super-admin", RequireRole(entity.RoleSuperAdmin))
	superAdmin.Post("/companies", superAdminHandler.CreateCompany)
	superAdmin.Get("/companies", superAdminHandler.ListCompanies)
	superAdmin.Patch("/companies/:id/toggle", superAdminHandler.ToggleCompany)
}
