package service

import (
	"context"
	"log/slog"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"uuid_required"`
}

// AssignmentService hands serialized units to users and takes them back.
// An assigned unit leaves the sale pool until it is returned.
type AssignmentService interface {
	Assign(ctx context.Context, actor model.Actor, assetID uuid.UUID, req AssignRequest) (*model.Asset, error)
	Return(ctx context.Context, actor model.Actor, assetID uuid.UUID) (*model.Asset, error)
}

type assignmentService struct {
	db      *gorm.DB
	ledger  *Ledger
	history *HistoryRecorder
	users   repository.UserRepository
}

func NewAssignmentService(db *gorm.DB, ledger *Ledger, history *HistoryRecorder, users repository.UserRepository) AssignmentService {
	return &assignmentService{db: db, ledger: ledger, history: history, users: users}
}

func (s *assignmentService) Assign(ctx context.Context, actor model.Actor, assetID uuid.UUID, req AssignRequest) (*model.Asset, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, lookupErr(err, "user", req.UserID)
	}
	if !user.IsActive {
		return nil, invalidState("user %s is inactive", user.ID)
	}

	var assigned *model.Asset
	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, assetID)
		if err != nil {
			return err
		}
		if !asset.Serialized {
			return invalidState("asset %s is bulk stock; only serialized units can be assigned", asset.ID)
		}
		if asset.IsHeld() {
			return invalidState("asset %s is already assigned", asset.ID)
		}
		if asset.Quantity < 1 {
			return &InsufficientStockError{AssetID: asset.ID, Requested: 1, Available: asset.Quantity}
		}

		holder := user.ID
		if err := s.ledger.setHolder(tx, asset, &holder, actor); err != nil {
			return err
		}
		if err := s.history.Record(tx, assignmentRecord(asset.ID, user.ID, model.ActionAssign, actor)); err != nil {
			return err
		}
		assigned = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("asset assigned", "asset_id", assigned.ID, "user_id", user.ID, "actor", actor.AuditID())
	return assigned, nil
}

func (s *assignmentService) Return(ctx context.Context, actor model.Actor, assetID uuid.UUID) (*model.Asset, error) {
	var returned *model.Asset
	var from uuid.UUID
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.ledger.lock(tx, assetID)
		if err != nil {
			return err
		}
		if !asset.IsHeld() {
			return invalidState("asset %s is not assigned", asset.ID)
		}

		from = *asset.HolderID
		if err := s.ledger.setHolder(tx, asset, nil, actor); err != nil {
			return err
		}
		if err := s.history.Record(tx, assignmentRecord(asset.ID, from, model.ActionReturn, actor)); err != nil {
			return err
		}
		returned = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("asset returned", "asset_id", returned.ID, "user_id", from, "status", returned.Status)
	return returned, nil
}

func assignmentRecord(assetID, userID uuid.UUID, action model.AssignmentAction, actor model.Actor) *model.AssignmentRecord {
	rec := &model.AssignmentRecord{
		AssetID:      assetID,
		UserID:       userID,
		Action:       action,
		RecordedByID: actor.Ref(),
	}
	rec.CreatedBy = actor.AuditID()
	rec.UpdatedBy = actor.AuditID()
	return rec
}
