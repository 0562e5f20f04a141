package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Assets       *AssetHandler
	Transactions *TransactionHandler
	Users        *UserHandler
	Reports      *ReportHandler
	Reference    *ReferenceHandler
}

type RouterOptions struct {
	AppName   string
	Tokens    *jwt.Manager
	Users     repository.UserRepository
	AccessLog bool
}

// NewApp builds the Fiber app with middleware and every /api/v1 route.
func NewApp(h Handlers, opts RouterOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: opts.AppName,
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(opts.Tokens, opts.Users))
	req := middleware.RequirePrivilege

	// Assets
	protected.Get("/assets", req(model.PrivAssetView), h.Assets.GetAssets)
	protected.Get("/assets/alerts", req(model.PrivAssetView), h.Assets.GetStockAlert)
	protected.Get("/assets/:id", req(model.PrivAssetView), h.Assets.GetAsset)
	protected.Post("/assets", req(model.PrivAssetCreate), h.Assets.RegisterProduct)
	protected.Put("/assets/:id", req(model.PrivAssetUpdate), h.Assets.UpdateAsset)
	protected.Post("/assets/:id/restock", req(model.PrivAssetUpdate), h.Assets.Restock)
	protected.Post("/assets/:id/adjust", req(model.PrivAssetUpdate), h.Assets.Adjust)
	protected.Delete("/assets/:id", req(model.PrivAssetDelete), h.Assets.RemoveAsset)
	protected.Post("/assets/:id/assign", req(model.PrivAssetAssign), h.Assets.Assign)
	protected.Post("/assets/:id/return", req(model.PrivAssetAssign), h.Assets.Return)

	// Sales, orders, transfers
	protected.Post("/sales", req(model.PrivSaleCreate), h.Transactions.Sell)
	protected.Get("/sales", req(model.PrivSaleView), h.Transactions.GetSales)
	protected.Post("/orders", req(model.PrivOrderCreate), h.Transactions.PlaceOrder)
	protected.Get("/orders", h.Transactions.GetOrders)
	protected.Patch("/orders/:id/confirm", req(model.PrivOrderDecide), h.Transactions.ConfirmOrder)
	protected.Patch("/orders/:id/reject", req(model.PrivOrderDecide), h.Transactions.RejectOrder)
	protected.Post("/transfers", req(model.PrivAssetTransfer), h.Transactions.Transfer)
	protected.Get("/transfers", req(model.PrivTransferView), h.Transactions.GetTransfers)

	// Users
	protected.Get("/me/assets", h.Users.GetMyAssets)
	protected.Get("/users", req(model.PrivUserView), h.Users.GetUsers)
	protected.Post("/users", req(model.PrivUserCreate), h.Users.CreateUser)
	protected.Get("/users/:id", req(model.PrivUserView), h.Users.GetUser)
	protected.Get("/users/:id/assets", middleware.RequireAnyPrivilege(model.PrivUserView, model.PrivAssetAssign), h.Users.GetUserAssets)

	// Reports
	protected.Get("/reports/sales", req(model.PrivReportView), h.Reports.GetSalesReport)
	protected.Get("/reports/stats", req(model.PrivReportView), h.Reports.GetStats)

	// Reference data
	protected.Get("/categories", h.Reference.GetCategories)
	protected.Put("/categories/:id", req(model.PrivAssetUpdate), h.Reference.RenameCategory)
	protected.Get("/departments", h.Reference.GetDepartments)
	protected.Get("/roles", h.Reference.GetRoles)

	return app
}
