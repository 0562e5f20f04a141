package service

import (
	"errors"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// staleAssets reports a lost version race for the first failures ledger
// writes, as if another transaction had committed in between.
type staleAssets struct {
	repository.AssetRepository
	failures int
	calls    int
}

func (s *staleAssets) WriteLedger(tx *gorm.DB, asset *model.Asset, updatedBy string) error {
	s.calls++
	if s.calls <= s.failures {
		return repository.ErrStaleWrite
	}
	return s.AssetRepository.WriteLedger(tx, asset, updatedBy)
}

func staleSeller(f *fixture, failures int) (TransactionService, *staleAssets) {
	assets := &staleAssets{AssetRepository: f.assets, failures: failures}
	ledger := NewLedger(f.db, assets)
	return NewTransactionService(f.db, ledger, f.recorder, f.users), assets
}

func TestSellRetriesAfterStaleWrite(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 10, 20)
	before := f.reload(asset.ID)
	txs, assets := staleSeller(f, 1)

	res, err := txs.Sell(f.ctx, f.admin, SellRequest{AssetID: asset.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if assets.calls != 2 {
		t.Errorf("ledger writes = %d, want 2", assets.calls)
	}
	if res.Asset.Quantity != 7 {
		t.Errorf("result quantity = %d, want 7", res.Asset.Quantity)
	}

	stored := f.reload(asset.ID)
	if stored.Quantity != 7 || stored.Version != before.Version+1 {
		t.Errorf("stored = %d (v%d), want 7 (v%d)", stored.Quantity, stored.Version, before.Version+1)
	}
	sales, _ := f.queries.ListSales(f.ctx)
	if len(sales) != 1 {
		t.Errorf("%d sale records, want exactly 1", len(sales))
	}
}

func TestSellGivesUpAfterRepeatedStaleWrites(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Widget", 10, 20)
	before := f.reload(asset.ID)
	txs, assets := staleSeller(f, maxTxAttempts)

	_, err := txs.Sell(f.ctx, f.admin, SellRequest{AssetID: asset.ID, Quantity: 3})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if assets.calls != maxTxAttempts {
		t.Errorf("ledger writes = %d, want %d", assets.calls, maxTxAttempts)
	}

	stored := f.reload(asset.ID)
	if stored.Quantity != 10 || stored.Version != before.Version {
		t.Errorf("stored = %d (v%d), want 10 (v%d)", stored.Quantity, stored.Version, before.Version)
	}
	sales, _ := f.queries.ListSales(f.ctx)
	if len(sales) != 0 {
		t.Errorf("%d sale records after conflict", len(sales))
	}
}

func TestPlaceOrderRetriesAfterStaleWrite(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Chair", 5, 10)
	buyer := f.user("Buyer")
	txs, assets := staleSeller(f, maxTxAttempts-1)

	if _, err := txs.PlaceOrder(f.ctx, f.admin, OrderRequest{UserID: buyer.ID, AssetID: asset.ID, Quantity: 2}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if assets.calls != maxTxAttempts {
		t.Errorf("ledger writes = %d, want %d", assets.calls, maxTxAttempts)
	}
	if got := f.reload(asset.ID).Quantity; got != 3 {
		t.Errorf("quantity = %d, want 3", got)
	}
	orders, _ := f.queries.ListOrders(f.ctx, nil)
	if len(orders) != 1 {
		t.Errorf("%d orders, want 1", len(orders))
	}
}

// racedOrders loses the first status transition to another decider. The
// retry then reads the order as that decider left it.
type racedOrders struct {
	repository.HistoryRepository
	winner      model.OrderStatus
	lost        bool
	transitions int
	locks       int
}

func (r *racedOrders) TransitionOrder(tx *gorm.DB, order *model.Order, to model.OrderStatus, by model.Actor, at time.Time) error {
	r.transitions++
	if !r.lost {
		r.lost = true
		return repository.ErrStaleWrite
	}
	return r.HistoryRepository.TransitionOrder(tx, order, to, by, at)
}

func (r *racedOrders) LockOrder(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	r.locks++
	order, err := r.HistoryRepository.LockOrder(tx, id)
	if err != nil {
		return nil, err
	}
	if r.lost {
		order.Status = r.winner
	}
	return order, nil
}

func TestDecideOrderLosingTheRace(t *testing.T) {
	f := newFixture(t, OrderOptions{RestockOnReject: true})
	asset := f.asset("Desk", 10, 50)
	order := placeOrder(t, f, asset, 4)

	history := &racedOrders{HistoryRepository: f.history, winner: model.OrderConfirmed}
	orders := NewOrderService(f.db, f.ledger, history, OrderOptions{RestockOnReject: true})

	_, err := orders.DecideOrder(f.ctx, f.admin, order.ID, model.DecisionReject)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if history.locks != 2 || history.transitions != 1 {
		t.Errorf("locks = %d transitions = %d, want 2 and 1", history.locks, history.transitions)
	}
	// The losing reject must not restock.
	if got := f.reload(asset.ID).Quantity; got != 6 {
		t.Errorf("quantity = %d, want 6", got)
	}
}

func TestDecideOrderRetriesAfterStaleTransition(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	asset := f.asset("Desk", 10, 50)
	order := placeOrder(t, f, asset, 1)

	// No competing decision was committed, so the retry succeeds.
	history := &racedOrders{HistoryRepository: f.history, winner: model.OrderPending}
	orders := NewOrderService(f.db, f.ledger, history, OrderOptions{})

	decided, err := orders.DecideOrder(f.ctx, f.admin, order.ID, model.DecisionConfirm)
	if err != nil {
		t.Fatalf("DecideOrder: %v", err)
	}
	if decided.Status != model.OrderConfirmed || history.transitions != 2 {
		t.Errorf("status = %q after %d transitions", decided.Status, history.transitions)
	}
	stored, err := f.history.FindOrderByID(f.ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != model.OrderConfirmed {
		t.Errorf("stored status = %q", stored.Status)
	}
}
