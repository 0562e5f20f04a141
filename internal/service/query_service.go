package service

import (
	"context"
	"sort"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
)

// CategoryNameResolver maps category ids to display names.
type CategoryNameResolver interface {
	Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type CategoryGroup struct {
	CategoryID   uuid.UUID     `json:"category_id"`
	CategoryName string        `json:"category_name"`
	Assets       []model.Asset `json:"assets"`
}

// QueryService serves read projections over the ledger and its history.
// Results may lag concurrent writes.
type QueryService interface {
	ListAssetsByCategory(ctx context.Context, search string) ([]CategoryGroup, error)
	ListAssignedAssets(ctx context.Context, userID uuid.UUID) ([]model.Asset, error)
	ListOrders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error)
	ListTransfers(ctx context.Context, assetID *uuid.UUID) ([]model.TransferRecord, error)
	ListSales(ctx context.Context) ([]model.SaleRecord, error)
}

type queryService struct {
	assets  repository.AssetRepository
	history repository.HistoryRepository
	users   repository.UserRepository
	names   CategoryNameResolver
}

func NewQueryService(
	assets repository.AssetRepository,
	history repository.HistoryRepository,
	users repository.UserRepository,
	names CategoryNameResolver,
) QueryService {
	return &queryService{assets: assets, history: history, users: users, names: names}
}

func (s *queryService) ListAssetsByCategory(ctx context.Context, search string) ([]CategoryGroup, error) {
	assets, err := s.assets.FindAll(ctx, repository.AssetFilter{Search: search})
	if err != nil {
		return nil, err
	}

	index := map[uuid.UUID]int{}
	var groups []CategoryGroup
	var ids []uuid.UUID
	for _, a := range assets {
		i, ok := index[a.CategoryID]
		if !ok {
			i = len(groups)
			index[a.CategoryID] = i
			groups = append(groups, CategoryGroup{CategoryID: a.CategoryID})
			ids = append(ids, a.CategoryID)
		}
		groups[i].Assets = append(groups[i].Assets, a)
	}

	names, err := s.names.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		name, ok := names[groups[i].CategoryID]
		if !ok {
			name = model.UncategorizedName
		}
		groups[i].CategoryName = name
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CategoryName < groups[j].CategoryName
	})
	return groups, nil
}

func (s *queryService) ListAssignedAssets(ctx context.Context, userID uuid.UUID) ([]model.Asset, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	return s.assets.FindAll(ctx, repository.AssetFilter{
		HolderID: &userID,
		Statuses: []model.AssetStatus{model.StatusAssigned},
	})
}

func (s *queryService) ListOrders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	return s.history.FindOrders(ctx, userID)
}

func (s *queryService) ListTransfers(ctx context.Context, assetID *uuid.UUID) ([]model.TransferRecord, error) {
	return s.history.FindTransfers(ctx, assetID)
}

func (s *queryService) ListSales(ctx context.Context) ([]model.SaleRecord, error) {
	return s.history.FindSales(ctx, repository.DateRange{})
}
