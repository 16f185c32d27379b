package txmanager

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yashranaway/flexile/core/log"
	dbtx "github.com/yashranaway/flexile/db/tx"
)

type TransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn with a transaction carried on its context.
// Calls made while a transaction is already on ctx join it instead of opening a new one.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := dbtx.TransactionFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.Errorf("❌ Panic inside transaction, rolling back: %v", r)
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Errorf("❌ Failed to roll back after panic: %v", rollbackErr)
		}
		panic(r)
	}()

	if err := fn(dbtx.WithTransaction(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
