package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	QuantityWhole  = "whole"
	QuantityPieces = "pieces"

	maxPiecesPerRegistration = 500
)

type RegisterProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `json:"category_id" validate:"uuid_required"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	QuantityType  string          `json:"quantity_type" validate:"omitempty,oneof=whole pieces"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

type UpdateAssetRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `json:"category_id" validate:"uuid_required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// AdjustStockRequest corrects a count after shrinkage or a miscount.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryNameInvalidator drops cached category names after a rename.
type CategoryNameInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

type RegisterResult struct {
	Assets   []*model.Asset `json:"assets"`
	Warnings []string       `json:"warnings,omitempty"`
}

type UpdateResult struct {
	Asset    *model.Asset `json:"asset"`
	Warnings []string     `json:"warnings,omitempty"`
}

// CatalogService registers products and maintains asset metadata. Stock
// changes go through the ledger.
type CatalogService interface {
	RegisterProduct(ctx context.Context, actor model.Actor, req RegisterProductRequest) (*RegisterResult, error)
	UpdateAsset(ctx context.Context, actor model.Actor, id uuid.UUID, req UpdateAssetRequest) (*UpdateResult, error)
	Restock(ctx context.Context, actor model.Actor, id uuid.UUID, req RestockRequest) (*model.Asset, error)
	AdjustStock(ctx context.Context, actor model.Actor, id uuid.UUID, req AdjustStockRequest) (*model.Asset, error)
	RemoveAsset(ctx context.Context, actor model.Actor, id uuid.UUID) error
	Categories(ctx context.Context) ([]model.Category, error)
	RenameCategory(ctx context.Context, actor model.Actor, id uuid.UUID, req RenameCategoryRequest) (*model.Category, error)
	Departments(ctx context.Context) ([]model.Department, error)
}

type catalogService struct {
	db          *gorm.DB
	ledger      *Ledger
	assets      repository.AssetRepository
	categories  repository.CategoryRepository
	departments repository.DepartmentRepository
	names       CategoryNameInvalidator
}

func NewCatalogService(
	db *gorm.DB,
	ledger *Ledger,
	assets repository.AssetRepository,
	categories repository.CategoryRepository,
	departments repository.DepartmentRepository,
	names CategoryNameInvalidator,
) CatalogService {
	return &catalogService{db: db, ledger: ledger, assets: assets, categories: categories, departments: departments, names: names}
}

func (s *catalogService) RegisterProduct(ctx context.Context, actor model.Actor, req RegisterProductRequest) (*RegisterResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	warnings, err := checkPrices(req.PurchasePrice, req.SalePrice)
	if err != nil {
		return nil, err
	}
	if req.QuantityType == QuantityPieces && req.Quantity > maxPiecesPerRegistration {
		return nil, &ValidationError{Field: "RegisterProductRequest.Quantity", Tag: fmt.Sprintf("max=%d", maxPiecesPerRegistration)}
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, lookupErr(err, "category", req.CategoryID)
	}

	assets := buildAssets(req, actor)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.assets.Create(tx, assets...)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("product registered",
		"name", req.Name,
		"quantity", req.Quantity,
		"quantity_type", req.QuantityType,
		"assets", len(assets),
		"actor", actor.AuditID(),
	)
	return &RegisterResult{Assets: assets, Warnings: warnings}, nil
}

// buildAssets makes one bulk asset, or one serialized unit per piece.
func buildAssets(req RegisterProductRequest, actor model.Actor) []*model.Asset {
	base := model.Asset{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
	}
	base.CreatedBy = actor.AuditID()
	base.UpdatedBy = actor.AuditID()

	if req.QuantityType != QuantityPieces {
		a := base
		a.Quantity = req.Quantity
		a.Refresh()
		return []*model.Asset{&a}
	}

	batch := strings.ToUpper(uuid.NewString()[:8])
	out := make([]*model.Asset, 0, req.Quantity)
	for i := 1; i <= req.Quantity; i++ {
		a := base
		a.Quantity = 1
		a.Serialized = true
		a.SerialNo = fmt.Sprintf("%s-%03d", batch, i)
		a.Refresh()
		out = append(out, &a)
	}
	return out
}

func checkPrices(purchase, sale decimal.Decimal) ([]string, error) {
	if purchase.IsNegative() {
		return nil, &ValidationError{Field: "PurchasePrice", Tag: "gte"}
	}
	if sale.IsNegative() {
		return nil, &ValidationError{Field: "SalePrice", Tag: "gte"}
	}
	if sale.LessThan(purchase) {
		return []string{fmt.Sprintf("sale price %s is below purchase price %s", sale.StringFixed(2), purchase.StringFixed(2))}, nil
	}
	return nil, nil
}

func (s *catalogService) UpdateAsset(ctx context.Context, actor model.Actor, id uuid.UUID, req UpdateAssetRequest) (*UpdateResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	warnings, err := checkPrices(req.PurchasePrice, req.SalePrice)
	if err != nil {
		return nil, err
	}

	asset, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, lookupErr(err, "category", req.CategoryID)
	}

	asset.Name = strings.TrimSpace(req.Name)
	asset.Description = req.Description
	asset.CategoryID = req.CategoryID
	asset.PurchasePrice = req.PurchasePrice
	asset.SalePrice = req.SalePrice
	asset.UpdatedBy = actor.AuditID()
	if err := s.assets.UpdateDetails(ctx, asset); err != nil {
		return nil, err
	}

	updated, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Asset: updated, Warnings: warnings}, nil
}

func (s *catalogService) Restock(ctx context.Context, actor model.Actor, id uuid.UUID, req RestockRequest) (*model.Asset, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	asset, err := s.ledger.ApplyQuantityDelta(ctx, id, req.Quantity, actor)
	if err != nil {
		return nil, err
	}
	slog.Info("asset restocked", "asset_id", id, "added", req.Quantity, "quantity", asset.Quantity, "status", asset.Status)
	return asset, nil
}

// AdjustStock applies a signed correction. The result may not go below zero.
func (s *catalogService) AdjustStock(ctx context.Context, actor model.Actor, id uuid.UUID, req AdjustStockRequest) (*model.Asset, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	asset, err := s.ledger.ApplyQuantityDelta(ctx, id, req.Delta, actor)
	if err != nil {
		return nil, err
	}
	slog.Info("stock adjusted",
		"asset_id", id,
		"delta", req.Delta,
		"reason", req.Reason,
		"quantity", asset.Quantity,
		"status", asset.Status,
		"actor", actor.AuditID(),
	)
	return asset, nil
}

// RemoveAsset soft-deletes an asset; history rows keep referencing it.
func (s *catalogService) RemoveAsset(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, id)
		if err != nil {
			return err
		}
		if asset.IsHeld() {
			return invalidState("asset %s is assigned; return it before removing", asset.ID)
		}
		return lookupErr(s.assets.SoftDelete(tx, asset.ID, actor.AuditID()), "asset", id)
	})
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *catalogService) RenameCategory(ctx context.Context, actor model.Actor, id uuid.UUID, req RenameCategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, lookupErr(err, "category", id)
	}
	if existing, err := s.categories.FindByName(ctx, req.Name); err == nil && existing.ID != id {
		return nil, invalidState("category %q already exists", req.Name)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.categories.Rename(ctx, id, req.Name, actor.AuditID()); err != nil {
		return nil, err
	}
	s.names.Invalidate(ctx, id)

	return s.categories.FindByID(ctx, id)
}

func (s *catalogService) Departments(ctx context.Context) ([]model.Department, error) {
	return s.departments.FindAll(ctx)
}
