// Package tx carries a *sqlx.Tx through a context so repositories join the caller's transaction.
package tx

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

func WithTransaction(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func TransactionFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// Querier is the query surface shared by *sqlx.DB and *sqlx.Tx
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

var (
	_ Querier = (*sqlx.DB)(nil)
	_ Querier = (*sqlx.Tx)(nil)
)

// GetTransactional returns the context's transaction, or db when there is none
func GetTransactional(ctx context.Context, db *sqlx.DB) Querier {
	if tx, ok := TransactionFromContext(ctx); ok {
		return tx
	}
	return db
}
