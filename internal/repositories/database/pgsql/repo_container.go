package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres RepositoryProvider. Reads and writes made through it
// directly autocommit; WithinTransaction binds a fresh Store to one pgx.Tx.
type Store struct {
	queries
	pool *pgxpool.Pool
}

func NewRepositoryProvider(pool *pgxpool.Pool) *Store {
	return &Store{queries: queries{db: pool}, pool: pool}
}

var _ portsrepo.RepositoryProvider = (*Store)(nil)

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// Row locks taken with SELECT ... FOR UPDATE are held until then.
func (s *Store) WithinTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError("failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Default().Warn("transaction rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, &queries{db: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError("failed to commit transaction", err)
	}
	return nil
}
