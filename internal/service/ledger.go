package service

import (
	"context"
	"math"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is the only writer of asset quantity, status and holder. Every
// write goes through a locked read and a version-checked update.
type Ledger struct {
	db     *gorm.DB
	assets repository.AssetRepository
}

func NewLedger(db *gorm.DB, assets repository.AssetRepository) *Ledger {
	return &Ledger{db: db, assets: assets}
}

func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	asset, err := l.assets.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "asset", id)
	}
	return asset, nil
}

// ApplyQuantityDelta adds a signed delta to the asset's quantity in its own
// transaction and returns the updated asset. Units held by a user keep their
// quantity until they are returned.
func (l *Ledger) ApplyQuantityDelta(ctx context.Context, id uuid.UUID, delta int, actor model.Actor) (*model.Asset, error) {
	var updated *model.Asset
	err := runInTx(ctx, l.db, func(tx *gorm.DB) error {
		asset, err := l.lock(tx, id)
		if err != nil {
			return err
		}
		if asset.IsHeld() {
			return invalidState("asset %s is assigned; return it before changing its quantity", asset.ID)
		}
		if err := l.applyDelta(tx, asset, delta, actor); err != nil {
			return err
		}
		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (l *Ledger) lock(tx *gorm.DB, id uuid.UUID) (*model.Asset, error) {
	asset, err := l.assets.LockByID(tx, id)
	if err != nil {
		return nil, lookupErr(err, "asset", id)
	}
	return asset, nil
}

func (l *Ledger) applyDelta(tx *gorm.DB, asset *model.Asset, delta int, actor model.Actor) error {
	if delta == math.MinInt || (delta > 0 && asset.Quantity > math.MaxInt-delta) {
		return &ValidationError{Field: "Delta", Tag: "max"}
	}
	next := asset.Quantity + delta
	if next < 0 {
		return &InsufficientStockError{AssetID: asset.ID, Requested: -delta, Available: asset.Quantity}
	}
	asset.Quantity = next
	asset.Refresh()
	return l.assets.WriteLedger(tx, asset, actor.AuditID())
}

// setHolder moves the asset to holder, or back to the pool when holder is nil.
func (l *Ledger) setHolder(tx *gorm.DB, asset *model.Asset, holder *uuid.UUID, actor model.Actor) error {
	asset.HolderID = holder
	asset.Refresh()
	return l.assets.WriteLedger(tx, asset, actor.AuditID())
}
