package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	assets     repository.AssetRepository
	history    repository.HistoryRepository
	users      repository.UserRepository
	categories repository.CategoryRepository

	ledger   *Ledger
	recorder *HistoryRecorder
	txs      TransactionService
	orders   OrderService
	assign   AssignmentService
	catalog  CatalogService
	queries  QueryService

	category *model.Category
	admin    model.Actor
}

func newFixture(t *testing.T, opts OrderOptions) *fixture {
	t.Helper()
	db := database.NewTestDB(t)

	f := &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		assets:     repository.NewAssetRepo(db),
		history:    repository.NewHistoryRepo(db),
		users:      repository.NewUserRepo(db),
		categories: repository.NewCategoryRepo(db),
	}
	f.ledger = NewLedger(db, f.assets)
	f.recorder = NewHistoryRecorder(f.history)
	f.txs = NewTransactionService(db, f.ledger, f.recorder, f.users)
	f.orders = NewOrderService(db, f.ledger, f.history, opts)
	f.assign = NewAssignmentService(db, f.ledger, f.recorder, f.users)
	names := cache.NewCategoryNames(nil, f.categories.NamesByID, time.Minute)
	f.catalog = NewCatalogService(db, f.ledger, f.assets, f.categories, repository.NewDepartmentRepo(db), names)
	f.queries = NewQueryService(f.assets, f.history, f.users, names)

	f.category = f.newCategory("General")
	admin := f.user("Admin")
	f.admin = model.Actor{ID: admin.ID, Name: admin.FullName}
	return f
}

func (f *fixture) newCategory(name string) *model.Category {
	f.t.Helper()
	c := &model.Category{Name: name}
	if err := f.categories.Create(f.ctx, c); err != nil {
		f.t.Fatalf("create category: %v", err)
	}
	return c
}

// asset creates bulk stock with the given quantity and sale price; the
// purchase price is half the sale price.
func (f *fixture) asset(name string, qty int, salePrice int64) *model.Asset {
	f.t.Helper()
	a := &model.Asset{
		Name:          name,
		CategoryID:    f.category.ID,
		Quantity:      qty,
		SalePrice:     decimal.NewFromInt(salePrice),
		PurchasePrice: decimal.NewFromInt(salePrice / 2),
	}
	a.Refresh()
	if err := f.assets.Create(f.db, a); err != nil {
		f.t.Fatalf("create asset: %v", err)
	}
	return a
}

// unit creates a serialized single piece.
func (f *fixture) unit(name string) *model.Asset {
	f.t.Helper()
	a := &model.Asset{
		Name:          name,
		CategoryID:    f.category.ID,
		Quantity:      1,
		Serialized:    true,
		SerialNo:      "T-" + uuid.NewString()[:6],
		SalePrice:     decimal.NewFromInt(900),
		PurchasePrice: decimal.NewFromInt(700),
	}
	a.Refresh()
	if err := f.assets.Create(f.db, a); err != nil {
		f.t.Fatalf("create unit: %v", err)
	}
	return a
}

func (f *fixture) user(name string) *model.User {
	f.t.Helper()
	u := &model.User{
		Email:    uuid.NewString()[:8] + "@example.com",
		FullName: name,
		IsActive: true,
	}
	if err := f.users.Create(f.ctx, u); err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) inactiveUser(name string) *model.User {
	f.t.Helper()
	u := f.user(name)
	// IsActive has a DB default, so false must be written explicitly.
	if err := f.db.Model(u).Update("is_active", false).Error; err != nil {
		f.t.Fatal(err)
	}
	u.IsActive = false
	return u
}

func (f *fixture) reload(id uuid.UUID) *model.Asset {
	f.t.Helper()
	a, err := f.ledger.Get(f.ctx, id)
	if err != nil {
		f.t.Fatalf("reload asset: %v", err)
	}
	return a
}

// assertConsistent checks quantity and status agree for every asset.
func (f *fixture) assertConsistent() {
	f.t.Helper()
	all, err := f.assets.FindAll(f.ctx, repository.AssetFilter{})
	if err != nil {
		f.t.Fatal(err)
	}
	for _, a := range all {
		if a.Quantity < 0 {
			f.t.Errorf("asset %s has negative quantity %d", a.Name, a.Quantity)
		}
		if want := model.StatusFor(a.Quantity, a.IsHeld()); a.Status != want {
			f.t.Errorf("asset %s: status %q, want %q for quantity %d", a.Name, a.Status, want, a.Quantity)
		}
	}
}
