package app

import (
	"time"

	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Deps struct {
	DB               *gorm.DB
	Redis            *redis.Client // nil disables the category cache
	Tokens           *jwt.Manager
	CategoryCacheTTL time.Duration
	RestockOnReject  bool
}

// Container holds the wired repositories, services and handlers.
type Container struct {
	Users      repository.UserRepository
	Roles      repository.RoleRepository
	Assets     repository.AssetRepository
	History    repository.HistoryRepository
	Categories repository.CategoryRepository

	Ledger       *service.Ledger
	Transactions service.TransactionService
	Orders       service.OrderService
	Assignments  service.AssignmentService
	Catalog      service.CatalogService
	Alerts       service.AlertService
	Queries      service.QueryService
	Reports      service.ReportService
	Auth         service.AuthService
	UserDir      service.UserService

	Handlers handler.Handlers
}

func Build(d Deps) *Container {
	c := &Container{
		Users:      repository.NewUserRepo(d.DB),
		Roles:      repository.NewRoleRepo(d.DB),
		Assets:     repository.NewAssetRepo(d.DB),
		History:    repository.NewHistoryRepo(d.DB),
		Categories: repository.NewCategoryRepo(d.DB),
	}
	departments := repository.NewDepartmentRepo(d.DB)
	names := cache.NewCategoryNames(d.Redis, c.Categories.NamesByID, d.CategoryCacheTTL)

	recorder := service.NewHistoryRecorder(c.History)
	c.Ledger = service.NewLedger(d.DB, c.Assets)
	c.Transactions = service.NewTransactionService(d.DB, c.Ledger, recorder, c.Users)
	c.Orders = service.NewOrderService(d.DB, c.Ledger, c.History, service.OrderOptions{RestockOnReject: d.RestockOnReject})
	c.Assignments = service.NewAssignmentService(d.DB, c.Ledger, recorder, c.Users)
	c.Catalog = service.NewCatalogService(d.DB, c.Ledger, c.Assets, c.Categories, departments, names)
	c.Alerts = service.NewAlertService(c.Assets)
	c.Queries = service.NewQueryService(c.Assets, c.History, c.Users, names)
	c.Reports = service.NewReportService(c.Assets, c.History)
	c.Auth = service.NewAuthService(c.Users, d.Tokens)
	c.UserDir = service.NewUserService(c.Users, c.Roles)

	c.Handlers = handler.Handlers{
		Auth:         handler.NewAuthHandler(c.Auth),
		Assets:       handler.NewAssetHandler(c.Ledger, c.Catalog, c.Assignments, c.Queries, c.Alerts),
		Transactions: handler.NewTransactionHandler(c.Transactions, c.Orders, c.Queries),
		Users:        handler.NewUserHandler(c.UserDir, c.Queries),
		Reports:      handler.NewReportHandler(c.Reports),
		Reference:    handler.NewReferenceHandler(c.Roles, c.Catalog),
	}
	return c
}
