package service

import (
	"context"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
)

// EvaluateStockAlert builds the low / out-of-stock alert for a set of assets.
// It returns "" when nothing needs attention. Names are listed once each, in
// input order.
func EvaluateStockAlert(assets []model.Asset) string {
	var low, out []string
	seenLow := map[string]bool{}
	seenOut := map[string]bool{}

	for _, a := range assets {
		switch model.StatusFor(a.Quantity, a.IsHeld()) {
		case model.StatusLowStock:
			if !seenLow[a.Name] {
				seenLow[a.Name] = true
				low = append(low, a.Name)
			}
		case model.StatusOutOfStock:
			if !seenOut[a.Name] {
				seenOut[a.Name] = true
				out = append(out, a.Name)
			}
		}
	}

	var b strings.Builder
	if len(low) > 0 {
		b.WriteString("Alert: The following products are low on stock: ")
		b.WriteString(strings.Join(low, ", "))
		b.WriteString(". ")
	}
	if len(out) > 0 {
		b.WriteString("Alert: The following products are out of stock: ")
		b.WriteString(strings.Join(out, ", "))
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

type AlertService interface {
	ComputeStockAlert(ctx context.Context) (string, error)
}

type alertService struct {
	assets repository.AssetRepository
}

func NewAlertService(assets repository.AssetRepository) AlertService {
	return &alertService{assets: assets}
}

func (s *alertService) ComputeStockAlert(ctx context.Context) (string, error) {
	assets, err := s.assets.FindAll(ctx, repository.AssetFilter{
		Statuses: []model.AssetStatus{model.StatusLowStock, model.StatusOutOfStock},
	})
	if err != nil {
		return "", err
	}
	return EvaluateStockAlert(assets), nil
}
