package service

import (
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistoryRecorder appends audit entries inside the caller's transaction.
type HistoryRecorder struct {
	repo repository.HistoryRepository
	now  func() time.Time
}

func NewHistoryRecorder(repo repository.HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (h *HistoryRecorder) Record(tx *gorm.DB, rec model.HistoryRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	if rec.OccurredAt().IsZero() {
		rec.Stamp(h.now())
	}
	return h.repo.Append(tx, rec)
}

func checkRecord(rec model.HistoryRecord) error {
	bad := func(field, tag string) error {
		return &ValidationError{Field: string(rec.HistoryKind()) + "." + field, Tag: tag}
	}

	switch r := rec.(type) {
	case *model.SaleRecord:
		if r.AssetID == uuid.Nil {
			return bad("AssetID", "uuid_required")
		}
		if r.Quantity <= 0 {
			return bad("Quantity", "gt")
		}
		if !r.TotalPrice.Equal(r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))) {
			return bad("TotalPrice", "snapshot")
		}
	case *model.Order:
		if r.AssetID == uuid.Nil {
			return bad("AssetID", "uuid_required")
		}
		if r.UserID == uuid.Nil {
			return bad("UserID", "uuid_required")
		}
		if r.Quantity <= 0 {
			return bad("Quantity", "gt")
		}
		if r.Status != model.OrderPending {
			return bad("Status", "pending")
		}
	case *model.TransferRecord:
		if r.AssetID == uuid.Nil {
			return bad("AssetID", "uuid_required")
		}
		if r.FromUserID == uuid.Nil || r.ToUserID == uuid.Nil {
			return bad("UserID", "uuid_required")
		}
		if r.FromUserID == r.ToUserID {
			return bad("ToUserID", "nefield")
		}
	case *model.AssignmentRecord:
		if r.AssetID == uuid.Nil || r.UserID == uuid.Nil {
			return bad("ID", "uuid_required")
		}
		if r.Action != model.ActionAssign && r.Action != model.ActionReturn {
			return bad("Action", "oneof")
		}
	default:
		return bad("Kind", "oneof")
	}
	return nil
}
