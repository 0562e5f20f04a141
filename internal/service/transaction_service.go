package service

import (
	"context"
	"log/slog"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SellRequest struct {
	AssetID  uuid.UUID `json:"asset_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

type OrderRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"uuid_required"`
	AssetID  uuid.UUID `json:"asset_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

type TransferRequest struct {
	AssetID    uuid.UUID `json:"asset_id" validate:"uuid_required"`
	FromUserID uuid.UUID `json:"from_user_id" validate:"uuid_required"`
	ToUserID   uuid.UUID `json:"to_user_id" validate:"uuid_required"`
}

type SellResult struct {
	Asset *model.Asset      `json:"asset"`
	Sale  *model.SaleRecord `json:"sale"`
}

type OrderResult struct {
	Asset *model.Asset `json:"asset"`
	Order *model.Order `json:"order"`
}

// TransactionService applies stock-changing operations. Each call commits the
// ledger write and its history entry together or not at all.
type TransactionService interface {
	Sell(ctx context.Context, actor model.Actor, req SellRequest) (*SellResult, error)
	PlaceOrder(ctx context.Context, actor model.Actor, req OrderRequest) (*OrderResult, error)
	Transfer(ctx context.Context, actor model.Actor, req TransferRequest) (*model.TransferRecord, error)
}

type transactionService struct {
	db      *gorm.DB
	ledger  *Ledger
	history *HistoryRecorder
	users   repository.UserRepository
}

func NewTransactionService(db *gorm.DB, ledger *Ledger, history *HistoryRecorder, users repository.UserRepository) TransactionService {
	return &transactionService{db: db, ledger: ledger, history: history, users: users}
}

func (s *transactionService) Sell(ctx context.Context, actor model.Actor, req SellRequest) (*SellResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	var result *SellResult
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, req.AssetID)
		if err != nil {
			return err
		}
		if err := requireSalePool(asset, req.Quantity); err != nil {
			return err
		}

		sale := &model.SaleRecord{
			AssetID:    asset.ID,
			Quantity:   req.Quantity,
			UnitPrice:  asset.SalePrice,
			CostPrice:  asset.PurchasePrice,
			TotalPrice: lineTotal(asset.SalePrice, req.Quantity),
			SoldByID:   actor.Ref(),
		}
		sale.CreatedBy = actor.AuditID()
		sale.UpdatedBy = actor.AuditID()

		if err := s.ledger.applyDelta(tx, asset, -req.Quantity, actor); err != nil {
			return err
		}
		if err := s.history.Record(tx, sale); err != nil {
			return err
		}
		result = &SellResult{Asset: asset, Sale: sale}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sale recorded",
		"sale_id", result.Sale.ID,
		"asset_id", result.Asset.ID,
		"quantity", result.Sale.Quantity,
		"total", result.Sale.TotalPrice.String(),
		"remaining", result.Asset.Quantity,
		"status", result.Asset.Status,
		"actor", actor.AuditID(),
	)
	return result, nil
}

func (s *transactionService) PlaceOrder(ctx context.Context, actor model.Actor, req OrderRequest) (*OrderResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	var result *OrderResult
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, req.AssetID)
		if err != nil {
			return err
		}
		if err := requireSalePool(asset, req.Quantity); err != nil {
			return err
		}

		order := &model.Order{
			AssetID:    asset.ID,
			UserID:     req.UserID,
			Quantity:   req.Quantity,
			UnitPrice:  asset.SalePrice,
			TotalPrice: lineTotal(asset.SalePrice, req.Quantity),
			Status:     model.OrderPending,
		}
		order.CreatedBy = actor.AuditID()
		order.UpdatedBy = actor.AuditID()

		// Stock is reserved now; decisions do not touch it by default.
		if err := s.ledger.applyDelta(tx, asset, -req.Quantity, actor); err != nil {
			return err
		}
		if err := s.history.Record(tx, order); err != nil {
			return err
		}
		result = &OrderResult{Asset: asset, Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order placed",
		"order_id", result.Order.ID,
		"asset_id", result.Asset.ID,
		"user_id", req.UserID,
		"quantity", req.Quantity,
		"remaining", result.Asset.Quantity,
	)
	return result, nil
}

func (s *transactionService) Transfer(ctx context.Context, actor model.Actor, req TransferRequest) (*model.TransferRecord, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.FromUserID == req.ToUserID {
		return nil, &ValidationError{Field: "TransferRequest.ToUserID", Tag: "nefield"}
	}
	if _, err := s.user(ctx, req.FromUserID); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, req.ToUserID); err != nil {
		return nil, err
	}

	var record *model.TransferRecord
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, req.AssetID)
		if err != nil {
			return err
		}
		if asset.Status != model.StatusAssigned || !asset.IsHeld() {
			return invalidState("asset %s is not assigned", asset.ID)
		}
		if *asset.HolderID != req.FromUserID {
			return invalidState("asset %s is not held by user %s", asset.ID, req.FromUserID)
		}

		rec := &model.TransferRecord{
			AssetID:         asset.ID,
			FromUserID:      req.FromUserID,
			ToUserID:        req.ToUserID,
			TransferredByID: actor.Ref(),
		}
		rec.CreatedBy = actor.AuditID()
		rec.UpdatedBy = actor.AuditID()

		to := req.ToUserID
		if err := s.ledger.setHolder(tx, asset, &to, actor); err != nil {
			return err
		}
		if err := s.history.Record(tx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("asset transferred",
		"transfer_id", record.ID,
		"asset_id", record.AssetID,
		"from", record.FromUserID,
		"to", record.ToUserID,
	)
	return record, nil
}

func (s *transactionService) user(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return u, nil
}

func (s *transactionService) activeUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.user(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, invalidState("user %s is inactive", id)
	}
	return u, nil
}

// requireSalePool rejects assets that are held by a user or have no stock.
func requireSalePool(asset *model.Asset, requested int) error {
	if asset.Status == model.StatusAssigned {
		return invalidState("asset %s is assigned to a user", asset.ID)
	}
	if !asset.InSalePool() {
		return &InsufficientStockError{AssetID: asset.ID, Requested: requested, Available: asset.Quantity}
	}
	return nil
}

func lineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
