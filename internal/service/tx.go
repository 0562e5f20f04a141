package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-inventory-ledger/internal/repository"

	"gorm.io/gorm"
)

const maxTxAttempts = 3

// runInTx runs fn in a transaction and starts over when a compare-and-swap
// write lost a race.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	for attempt := 1; ; attempt++ {
		err := db.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, repository.ErrStaleWrite) {
			return err
		}
		if attempt == maxTxAttempts {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		slog.Debug("retrying transaction after stale write", "attempt", attempt)
	}
}
