package service

import (
	"context"
	"sort"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type DailySales struct {
	Date    string          `json:"date"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

type SalesReport struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Days   []DailySales `json:"days"`
	Totals DailySales   `json:"totals"`
}

type Stats struct {
	TotalAssets     int64           `json:"total_assets"`
	AvailableCount  int64           `json:"available_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	AssignedCount   int64           `json:"assigned_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
}

// ReportService aggregates sales history and ledger totals.
type ReportService interface {
	SalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error)
	Stats(ctx context.Context) (*Stats, error)
}

type reportService struct {
	assets  repository.AssetRepository
	history repository.HistoryRepository
}

func NewReportService(assets repository.AssetRepository, history repository.HistoryRepository) ReportService {
	return &reportService{assets: assets, history: history}
}

// SalesReport buckets sales by UTC day between start and end inclusive.
// Profit uses the cost price snapshotted on each sale.
func (s *reportService) SalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &ValidationError{Field: "Range", Tag: "required"}
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "End", Tag: "gtefield"}
	}

	sales, err := s.history.FindSales(ctx, repository.DateRange{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	byDay := map[string]*DailySales{}
	report := &SalesReport{Start: start, End: end, Totals: DailySales{Date: "total"}}
	for _, sale := range sales {
		day := sale.DateAssigned.UTC().Format(dayLayout)
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day}
			byDay[day] = d
		}
		cost := sale.CostPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
		for _, acc := range []*DailySales{d, &report.Totals} {
			acc.Units += sale.Quantity
			acc.Revenue = acc.Revenue.Add(sale.TotalPrice)
			acc.Cost = acc.Cost.Add(cost)
			acc.Profit = acc.Revenue.Sub(acc.Cost)
		}
	}

	for _, d := range byDay {
		report.Days = append(report.Days, *d)
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Date < report.Days[j].Date })
	return report, nil
}

func (s *reportService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.assets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := s.assets.FindAll(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		AvailableCount:  counts[model.StatusAvailable],
		LowStockCount:   counts[model.StatusLowStock],
		OutOfStockCount: counts[model.StatusOutOfStock],
		AssignedCount:   counts[model.StatusAssigned],
	}
	for _, n := range counts {
		stats.TotalAssets += n
	}
	for _, a := range assets {
		stats.StockValuation = stats.StockValuation.Add(a.PurchasePrice.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	return stats, nil
}
