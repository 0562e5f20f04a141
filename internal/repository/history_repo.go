package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateRange bounds a history query; zero values leave that side open.
// History timestamps are stored in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type HistoryRepository interface {
	Append(tx *gorm.DB, rec model.HistoryRecord) error

	FindSales(ctx context.Context, r DateRange) ([]model.SaleRecord, error)
	FindOrders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error)
	FindOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindTransfers(ctx context.Context, assetID *uuid.UUID) ([]model.TransferRecord, error)
	FindAssignments(ctx context.Context, assetID uuid.UUID) ([]model.AssignmentRecord, error)

	LockOrder(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	// TransitionOrder moves a Pending order to the given status. It matches
	// only rows still Pending and reports ErrStaleWrite otherwise.
	TransitionOrder(tx *gorm.DB, order *model.Order, to model.OrderStatus, by model.Actor, at time.Time) error
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) Append(tx *gorm.DB, rec model.HistoryRecord) error {
	return tx.Create(rec).Error
}

func (r *historyRepo) FindSales(ctx context.Context, dr DateRange) ([]model.SaleRecord, error) {
	q := r.db.WithContext(ctx).Preload("Asset", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
	if !dr.Start.IsZero() {
		q = q.Where("date_assigned >= ?", dr.Start.UTC())
	}
	if !dr.End.IsZero() {
		q = q.Where("date_assigned <= ?", dr.End.UTC())
	}

	var sales []model.SaleRecord
	err := q.Order("date_assigned DESC").Find(&sales).Error
	return sales, err
}

func (r *historyRepo) FindOrders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Asset", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("User")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var orders []model.Order
	err := q.Order("date_ordered DESC").Find(&orders).Error
	return orders, err
}

func (r *historyRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindTransfers returns transfers in the order they happened.
func (r *historyRepo) FindTransfers(ctx context.Context, assetID *uuid.UUID) ([]model.TransferRecord, error) {
	q := r.db.WithContext(ctx).Preload("FromUser").Preload("ToUser").
		Preload("Asset", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
	if assetID != nil {
		q = q.Where("asset_id = ?", *assetID)
	}

	var transfers []model.TransferRecord
	err := q.Order("date_transferred ASC").Find(&transfers).Error
	return transfers, err
}

func (r *historyRepo) FindAssignments(ctx context.Context, assetID uuid.UUID) ([]model.AssignmentRecord, error) {
	var recs []model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("date_recorded ASC").
		Find(&recs).Error
	return recs, err
}

func (r *historyRepo) LockOrder(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *historyRepo) TransitionOrder(tx *gorm.DB, order *model.Order, to model.OrderStatus, by model.Actor, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"decided_at": at,
		"updated_by": by.AuditID(),
	}
	if ref := by.Ref(); ref != nil {
		updates["decided_by_id"] = *ref
	}

	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleWrite
	}

	order.Status = to
	order.DecidedAt = &at
	order.DecidedByID = by.Ref()
	order.UpdatedBy = by.AuditID()
	return nil
}
