package repository

import (
	"context"
	"fmt"

	"flagdeck/internal/apperr"
	"flagdeck/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork scopes one storage transaction to one logical operation. Every
// repository call made inside Do shares the same transaction; the callback
// returning nil commits, anything else (error or panic) rolls back. A single
// UnitOfWork value is safe for concurrent use; each Do call opens its own
// transaction.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do executes fn inside a transaction bound to ctx. On commit failure the
// transaction is rolled back best-effort and the commit error is returned,
// mapped through the error taxonomy (deferred constraint checks surface
// here as conflicts).
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			if err := tx.Rollback().Error; err != nil {
				logger.Error("rollback after panic failed", zap.Error(err))
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logger.Error("transaction rollback failed", zap.Error(rbErr))
		} else {
			logger.Debug("transaction rolled back")
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
			logger.Error("rollback after failed commit failed", zap.Error(rbErr))
		}
		return fmt.Errorf("commit transaction: %w", apperr.FromDB(err))
	}
	logger.Debug("transaction committed")
	return nil
}
