package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedAsset(t *testing.T, db *gorm.DB, name string, qty int) *model.Asset {
	t.Helper()
	cat := &model.Category{Name: "cat-" + uuid.NewString()[:8]}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	a := &model.Asset{
		Name:          name,
		CategoryID:    cat.ID,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromInt(10),
		SalePrice:     decimal.NewFromInt(20),
	}
	a.Refresh()
	if err := NewAssetRepo(db).Create(db, a); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	return a
}

func TestWriteLedgerCompareAndSwap(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewAssetRepo(db)
	a := seedAsset(t, db, "Monitor", 10)

	fresh := *a
	fresh.Quantity = 7
	fresh.Refresh()
	if err := repo.WriteLedger(db, &fresh, "tester"); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}
	if fresh.Version != a.Version+1 {
		t.Errorf("version = %d, want %d", fresh.Version, a.Version+1)
	}

	stale := *a
	stale.Quantity = 1
	if err := repo.WriteLedger(db, &stale, "tester"); !errors.Is(err, ErrStaleWrite) {
		t.Fatalf("stale write err = %v, want ErrStaleWrite", err)
	}

	got, err := repo.FindByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Quantity != 7 || got.Status != model.StatusAvailable {
		t.Errorf("stored asset = %d/%q, want 7/Available", got.Quantity, got.Status)
	}
}

func TestWriteLedgerClearsHolder(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewAssetRepo(db)
	a := seedAsset(t, db, "Laptop", 1)

	holder := &model.User{Email: "h@example.com", FullName: "Holder", IsActive: true}
	if err := db.Create(holder).Error; err != nil {
		t.Fatal(err)
	}

	a.HolderID = &holder.ID
	a.Refresh()
	if err := repo.WriteLedger(db, a, "tester"); err != nil {
		t.Fatal(err)
	}
	a.HolderID = nil
	a.Refresh()
	if err := repo.WriteLedger(db, a, "tester"); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.HolderID != nil {
		t.Errorf("holder = %v, want nil", got.HolderID)
	}
	if got.Status != model.StatusLowStock {
		t.Errorf("status = %q", got.Status)
	}
}

func TestFindAllFilters(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewAssetRepo(db)
	seedAsset(t, db, "Office Chair", 8)
	seedAsset(t, db, "Desk Lamp", 0)

	ctx := context.Background()
	got, err := repo.FindAll(ctx, AssetFilter{Search: "chair"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Office Chair" {
		t.Errorf("search result = %+v", got)
	}

	got, err = repo.FindAll(ctx, AssetFilter{Statuses: []model.AssetStatus{model.StatusOutOfStock}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Desk Lamp" {
		t.Errorf("status filter result = %+v", got)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[model.StatusAvailable] != 1 || counts[model.StatusOutOfStock] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSoftDeleteHidesAsset(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewAssetRepo(db)
	a := seedAsset(t, db, "Projector", 3)

	if err := repo.SoftDelete(db, a.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(context.Background(), a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found", err)
	}

	var raw model.Asset
	if err := db.Unscoped().First(&raw, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("row should survive soft delete: %v", err)
	}
	if raw.DeletedBy != "tester" {
		t.Errorf("deleted_by = %q", raw.DeletedBy)
	}
}

func TestTransitionOrderOnlyFromPending(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewHistoryRepo(db)
	a := seedAsset(t, db, "Keyboard", 5)
	user := &model.User{Email: "o@example.com", FullName: "Orderer", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}

	order := &model.Order{
		AssetID:    a.ID,
		UserID:     user.ID,
		Quantity:   1,
		UnitPrice:  decimal.NewFromInt(20),
		TotalPrice: decimal.NewFromInt(20),
		Status:     model.OrderPending,
	}
	order.Stamp(time.Now())
	if err := repo.Append(db, order); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := repo.TransitionOrder(db, order, model.OrderConfirmed, model.SystemActor, now); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if err := repo.TransitionOrder(db, order, model.OrderRejected, model.SystemActor, now); !errors.Is(err, ErrStaleWrite) {
		t.Fatalf("second transition err = %v, want ErrStaleWrite", err)
	}

	got, err := repo.FindOrderByID(context.Background(), order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.OrderConfirmed {
		t.Errorf("status = %q, want Confirmed", got.Status)
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewHistoryRepo(db)
	a := seedAsset(t, db, "Mouse", 5)

	sale := &model.SaleRecord{
		AssetID:    a.ID,
		Quantity:   1,
		UnitPrice:  decimal.NewFromInt(20),
		CostPrice:  decimal.NewFromInt(10),
		TotalPrice: decimal.NewFromInt(20),
	}
	sale.Stamp(time.Now())
	if err := repo.Append(db, sale); err != nil {
		t.Fatal(err)
	}

	if err := db.Delete(sale).Error; !errors.Is(err, model.ErrImmutableRecord) {
		t.Errorf("delete err = %v, want ErrImmutableRecord", err)
	}
	sale.Quantity = 99
	if err := db.Save(sale).Error; !errors.Is(err, model.ErrImmutableRecord) {
		t.Errorf("save err = %v, want ErrImmutableRecord", err)
	}

	sales, err := repo.FindSales(context.Background(), DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].Quantity != 1 {
		t.Errorf("sales = %+v", sales)
	}
}
