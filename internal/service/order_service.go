package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService runs the Pending -> Confirmed | Rejected decision.
type OrderService interface {
	DecideOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID, decision model.OrderDecision) (*model.Order, error)
}

type OrderOptions struct {
	// RestockOnReject returns the reserved quantity when an order is rejected.
	RestockOnReject bool
}

type orderService struct {
	db      *gorm.DB
	ledger  *Ledger
	history repository.HistoryRepository
	opts    OrderOptions
	now     func() time.Time
}

func NewOrderService(db *gorm.DB, ledger *Ledger, history repository.HistoryRepository, opts OrderOptions) OrderService {
	return &orderService{db: db, ledger: ledger, history: history, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

func (s *orderService) DecideOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID, decision model.OrderDecision) (*model.Order, error) {
	if orderID == uuid.Nil {
		return nil, &ValidationError{Field: "OrderID", Tag: "uuid_required"}
	}
	target, ok := decision.Target()
	if !ok {
		return nil, &ValidationError{Field: "Decision", Tag: "oneof"}
	}

	var decided *model.Order
	restocked := false
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		restocked = false
		order, err := s.history.LockOrder(tx, orderID)
		if err != nil {
			return lookupErr(err, "order", orderID)
		}
		if order.Status.Terminal() {
			return invalidState("order %s is already %s", order.ID, order.Status)
		}

		if err := s.history.TransitionOrder(tx, order, target, actor, s.now()); err != nil {
			return err
		}

		if target == model.OrderRejected && s.opts.RestockOnReject {
			ok, err := s.restock(tx, order, actor)
			if err != nil {
				return err
			}
			restocked = ok
		}
		decided = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order decided",
		"order_id", decided.ID,
		"status", decided.Status,
		"restocked", restocked,
		"actor", actor.AuditID(),
	)
	return decided, nil
}

// restock returns the order's reserved units. A removed asset is skipped.
func (s *orderService) restock(tx *gorm.DB, order *model.Order, actor model.Actor) (bool, error) {
	asset, err := s.ledger.lock(tx, order.AssetID)
	if errors.Is(err, ErrNotFound) {
		slog.Warn("rejected order asset no longer exists, not restocking", "order_id", order.ID, "asset_id", order.AssetID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.ledger.applyDelta(tx, asset, order.Quantity, actor); err != nil {
		return false, err
	}
	return true, nil
}
