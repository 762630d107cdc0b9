package repositories

import "context"

// TxFunc runs against a Store whose repositories share one transaction.
type TxFunc func(ctx context.Context, tx Store) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn TxFunc) error
}
