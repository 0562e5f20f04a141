package repository

import (
	"context"
	"strings"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetFilter struct {
	Search     string
	CategoryID *uuid.UUID
	HolderID   *uuid.UUID
	Statuses   []model.AssetStatus
}

type AssetRepository interface {
	Create(tx *gorm.DB, assets ...*model.Asset) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	FindAll(ctx context.Context, filter AssetFilter) ([]model.Asset, error)
	CountByStatus(ctx context.Context) (map[model.AssetStatus]int64, error)
	UpdateDetails(ctx context.Context, asset *model.Asset) error
	SoftDelete(tx *gorm.DB, id uuid.UUID, deletedBy string) error

	// LockByID reads an asset for update inside tx.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Asset, error)
	// WriteLedger persists quantity, status and holder if the stored version
	// still equals asset.Version, then bumps the version.
	WriteLedger(tx *gorm.DB, asset *model.Asset, updatedBy string) error
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db}
}

func (r *assetRepo) Create(tx *gorm.DB, assets ...*model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	return tx.Create(assets).Error
}

func (r *assetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Holder").First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) FindAll(ctx context.Context, f AssetFilter) ([]model.Asset, error) {
	q := r.db.WithContext(ctx).Model(&model.Asset{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(serial_no) LIKE ?)", like, like, like)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.HolderID != nil {
		q = q.Where("holder_id = ?", *f.HolderID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var assets []model.Asset
	err := q.Order("name ASC").Order("serial_no ASC").Find(&assets).Error
	return assets, err
}

func (r *assetRepo) CountByStatus(ctx context.Context) (map[model.AssetStatus]int64, error) {
	var rows []struct {
		Status model.AssetStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Asset{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.AssetStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// UpdateDetails writes descriptive fields only. Quantity, status, holder and
// version belong to the ledger.
func (r *assetRepo) UpdateDetails(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", asset.ID).
		Updates(map[string]interface{}{
			"name":           asset.Name,
			"description":    asset.Description,
			"category_id":    asset.CategoryID,
			"purchase_price": asset.PurchasePrice,
			"sale_price":     asset.SalePrice,
			"updated_by":     asset.UpdatedBy,
		}).Error
}

func (r *assetRepo) SoftDelete(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	if err := tx.Model(&model.Asset{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Asset{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assetRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&asset, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) WriteLedger(tx *gorm.DB, asset *model.Asset, updatedBy string) error {
	var holder interface{} = gorm.Expr("NULL")
	if asset.HolderID != nil {
		holder = *asset.HolderID
	}

	res := tx.Model(&model.Asset{}).
		Where("id = ? AND version = ?", asset.ID, asset.Version).
		Updates(map[string]interface{}{
			"quantity":   asset.Quantity,
			"status":     asset.Status,
			"holder_id":  holder,
			"version":    asset.Version + 1,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleWrite
	}

	asset.Version++
	asset.UpdatedBy = updatedBy
	return nil
}
