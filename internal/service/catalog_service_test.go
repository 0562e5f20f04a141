package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func registerReq(f *fixture, qty int, qtyType string) RegisterProductRequest {
	return RegisterProductRequest{
		Name:          "  Monitor ",
		CategoryID:    f.category.ID,
		Quantity:      qty,
		QuantityType:  qtyType,
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
	}
}

func TestRegisterWholeProduct(t *testing.T) {
	f := newFixture(t, OrderOptions{})

	res, err := f.catalog.RegisterProduct(f.ctx, f.admin, registerReq(f, 12, QuantityWhole))
	if err != nil {
		t.Fatalf("RegisterProduct: %v", err)
	}
	if len(res.Assets) != 1 {
		t.Fatalf("%d assets, want 1", len(res.Assets))
	}
	a := f.reload(res.Assets[0].ID)
	if a.Name != "Monitor" || a.Quantity != 12 || a.Status != model.StatusAvailable || a.Serialized {
		t.Errorf("asset = %+v", a)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", res.Warnings)
	}
}

func TestRegisterPiecesCreatesSerializedUnits(t *testing.T) {
	f := newFixture(t, OrderOptions{})

	res, err := f.catalog.RegisterProduct(f.ctx, f.admin, registerReq(f, 3, QuantityPieces))
	if err != nil {
		t.Fatalf("RegisterProduct: %v", err)
	}
	if len(res.Assets) != 3 {
		t.Fatalf("%d assets, want 3", len(res.Assets))
	}
	serials := map[string]bool{}
	for _, a := range res.Assets {
		if !a.Serialized || a.Quantity != 1 || a.Status != model.StatusLowStock {
			t.Errorf("unit = %+v", a)
		}
		if !strings.HasSuffix(a.SerialNo, "-001") && !strings.HasSuffix(a.SerialNo, "-002") && !strings.HasSuffix(a.SerialNo, "-003") {
			t.Errorf("serial %q", a.SerialNo)
		}
		serials[a.SerialNo] = true
	}
	if len(serials) != 3 {
		t.Errorf("serials not unique: %v", serials)
	}
}

func TestRegisterProductRejections(t *testing.T) {
	f := newFixture(t, OrderOptions{})

	tooMany := registerReq(f, maxPiecesPerRegistration+1, QuantityPieces)
	negative := registerReq(f, 1, QuantityWhole)
	negative.SalePrice = decimal.NewFromInt(-1)
	noName := registerReq(f, 1, QuantityWhole)
	noName.Name = ""
	badType := registerReq(f, 1, "crates")
	unknownCategory := registerReq(f, 1, QuantityWhole)
	unknownCategory.CategoryID = uuid.New()

	tests := []struct {
		name string
		req  RegisterProductRequest
		want error
	}{
		{"too many pieces", tooMany, ErrValidation},
		{"negative price", negative, ErrValidation},
		{"missing name", noName, ErrValidation},
		{"bad quantity type", badType, ErrValidation},
		{"zero quantity", registerReq(f, 0, QuantityWhole), ErrValidation},
		{"unknown category", unknownCategory, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.RegisterProduct(f.ctx, f.admin, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterWarnsOnLossMakingPrice(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	req := registerReq(f, 2, QuantityWhole)
	req.SalePrice = decimal.NewFromInt(80)

	res, err := f.catalog.RegisterProduct(f.ctx, f.admin, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "below purchase price") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestUpdateAssetKeepsLedgerFields(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Old name", 7, 10)
	other := f.newCategory("Electronics")

	res, err := f.catalog.UpdateAsset(f.ctx, f.admin, asset.ID, UpdateAssetRequest{
		Name:          "New name",
		CategoryID:    other.ID,
		PurchasePrice: decimal.NewFromInt(4),
		SalePrice:     decimal.NewFromInt(9),
	})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if res.Asset.Name != "New name" || res.Asset.CategoryID != other.ID {
		t.Errorf("asset = %+v", res.Asset)
	}
	if res.Asset.Quantity != 7 || res.Asset.Status != model.StatusAvailable {
		t.Errorf("ledger fields changed: %d/%q", res.Asset.Quantity, res.Asset.Status)
	}

	_, err = f.catalog.UpdateAsset(f.ctx, f.admin, uuid.New(), UpdateAssetRequest{Name: "x", CategoryID: other.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown asset: err = %v", err)
	}
}

func TestRestockRecomputesStatus(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 0, 10)
	if asset.Status != model.StatusOutOfStock {
		t.Fatalf("fixture status %q", asset.Status)
	}

	a, err := f.catalog.Restock(f.ctx, f.admin, asset.ID, RestockRequest{Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}
	if a.Quantity != 3 || a.Status != model.StatusLowStock {
		t.Errorf("after +3: %d/%q", a.Quantity, a.Status)
	}
	a, err = f.catalog.Restock(f.ctx, f.admin, asset.ID, RestockRequest{Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if a.Quantity != 5 || a.Status != model.StatusAvailable {
		t.Errorf("after +2: %d/%q", a.Quantity, a.Status)
	}

	if _, err := f.catalog.Restock(f.ctx, f.admin, asset.ID, RestockRequest{Quantity: 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero restock: err = %v", err)
	}
	f.assertConsistent()
}

func TestRemoveAsset(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 3, 10)
	unit := f.unit("Laptop")
	holder := f.user("Holder")
	if _, err := f.assign.Assign(f.ctx, f.admin, unit.ID, AssignRequest{UserID: holder.ID}); err != nil {
		t.Fatal(err)
	}

	if err := f.catalog.RemoveAsset(f.ctx, f.admin, unit.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("remove assigned: err = %v", err)
	}
	if err := f.catalog.RemoveAsset(f.ctx, f.admin, asset.ID); err != nil {
		t.Fatalf("RemoveAsset: %v", err)
	}
	if _, err := f.ledger.Get(f.ctx, asset.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed asset still visible: %v", err)
	}
	if _, err := f.txs.Sell(f.ctx, f.admin, SellRequest{AssetID: asset.ID, Quantity: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("sell removed asset: err = %v", err)
	}
}

func TestAssignAndReturn(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	unit := f.unit("Laptop")
	bulk := f.asset("Cable", 10, 2)
	user := f.user("Holder")

	if _, err := f.assign.Assign(f.ctx, f.admin, bulk.ID, AssignRequest{UserID: user.ID}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("assign bulk: err = %v", err)
	}

	a, err := f.assign.Assign(f.ctx, f.admin, unit.ID, AssignRequest{UserID: user.ID})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.Status != model.StatusAssigned || a.HolderID == nil || *a.HolderID != user.ID {
		t.Errorf("assigned asset = %+v", a)
	}
	if _, err := f.assign.Assign(f.ctx, f.admin, unit.ID, AssignRequest{UserID: user.ID}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double assign: err = %v", err)
	}

	a, err = f.assign.Return(f.ctx, f.admin, unit.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if a.IsHeld() || a.Status != model.StatusLowStock {
		t.Errorf("returned asset = %+v", a)
	}
	if _, err := f.assign.Return(f.ctx, f.admin, unit.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double return: err = %v", err)
	}

	recs, err := f.history.FindAssignments(f.ctx, unit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("%d assignment records, want 2", len(recs))
	}
	f.assertConsistent()
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 10, 10)

	steps := []struct {
		delta  int
		qty    int
		status model.AssetStatus
	}{
		{-3, 7, model.StatusAvailable},
		{-5, 2, model.StatusLowStock},
		{-2, 0, model.StatusOutOfStock},
		{6, 6, model.StatusAvailable},
	}
	for _, st := range steps {
		a, err := f.catalog.AdjustStock(f.ctx, f.admin, asset.ID, AdjustStockRequest{Delta: st.delta, Reason: "count"})
		if err != nil {
			t.Fatalf("adjust %d: %v", st.delta, err)
		}
		if a.Quantity != st.qty || a.Status != st.status {
			t.Errorf("adjust %d: got %d/%q, want %d/%q", st.delta, a.Quantity, a.Status, st.qty, st.status)
		}
	}
	f.assertConsistent()
}

func TestAdjustStockBelowZero(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 2, 10)
	before := f.reload(asset.ID)

	_, err := f.catalog.AdjustStock(f.ctx, f.admin, asset.ID, AdjustStockRequest{Delta: -3})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.Requested != 3 || stockErr.Available != 2 {
		t.Errorf("stock error = %+v", stockErr)
	}

	stored := f.reload(asset.ID)
	if stored.Quantity != 2 || stored.Version != before.Version {
		t.Errorf("asset changed: %d (v%d), want 2 (v%d)", stored.Quantity, stored.Version, before.Version)
	}
}

func TestAdjustStockRejections(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 5, 10)
	unit := f.unit("Laptop")
	holder := f.user("Holder")
	if _, err := f.assign.Assign(f.ctx, f.admin, unit.ID, AssignRequest{UserID: holder.ID}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		id   uuid.UUID
		req  AdjustStockRequest
		want error
	}{
		{"zero delta", asset.ID, AdjustStockRequest{Delta: 0}, ErrValidation},
		{"assigned unit", unit.ID, AdjustStockRequest{Delta: -1}, ErrInvalidState},
		{"unknown asset", uuid.New(), AdjustStockRequest{Delta: 1}, ErrNotFound},
		{"smallest int", asset.ID, AdjustStockRequest{Delta: math.MinInt}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.AdjustStock(f.ctx, f.admin, tt.id, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if got := f.reload(unit.ID); got.Quantity != 1 || got.Status != model.StatusAssigned {
		t.Errorf("assigned unit changed: %d/%q", got.Quantity, got.Status)
	}
}

func TestRestockOverflowIsRejected(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 10, 10)

	_, err := f.catalog.Restock(f.ctx, f.admin, asset.ID, RestockRequest{Quantity: math.MaxInt})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if errors.Is(err, ErrInsufficientStock) {
		t.Error("overflow reported as a stock shortage")
	}
	if got := f.reload(asset.ID).Quantity; got != 10 {
		t.Errorf("quantity = %d, want 10", got)
	}

	// The largest delta that still fits is accepted.
	a, err := f.catalog.Restock(f.ctx, f.admin, asset.ID, RestockRequest{Quantity: math.MaxInt - 10})
	if err != nil {
		t.Fatalf("restock to MaxInt: %v", err)
	}
	if a.Quantity != math.MaxInt {
		t.Errorf("quantity = %d, want MaxInt", a.Quantity)
	}
}

type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	r.ids = append(r.ids, ids...)
}

func TestRenameCategory(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	f.asset("Stapler", 10, 3)
	other := f.newCategory("Electronics")
	names := &recordingInvalidator{}
	catalog := NewCatalogService(f.db, f.ledger, f.assets, f.categories, repository.NewDepartmentRepo(f.db), names)

	renamed, err := catalog.RenameCategory(f.ctx, f.admin, f.category.ID, RenameCategoryRequest{Name: " Office "})
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if renamed.Name != "Office" {
		t.Errorf("name = %q", renamed.Name)
	}
	if len(names.ids) != 1 || names.ids[0] != f.category.ID {
		t.Errorf("invalidated %v, want [%s]", names.ids, f.category.ID)
	}

	groups, err := f.queries.ListAssetsByCategory(f.ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].CategoryName != "Office" {
		t.Errorf("groups = %+v", groups)
	}

	if _, err := catalog.RenameCategory(f.ctx, f.admin, other.ID, RenameCategoryRequest{Name: "Office"}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("duplicate name: err = %v", err)
	}
	if _, err := catalog.RenameCategory(f.ctx, f.admin, uuid.New(), RenameCategoryRequest{Name: "Spare"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: err = %v", err)
	}
	if _, err := catalog.RenameCategory(f.ctx, f.admin, other.ID, RenameCategoryRequest{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v", err)
	}
	if len(names.ids) != 1 {
		t.Errorf("failed renames invalidated the cache: %v", names.ids)
	}
}
