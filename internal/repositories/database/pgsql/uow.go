package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWork creates a UnitOfWork backed by a pgx connection pool.
func NewPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

// WithinTx runs fn inside a single database transaction. All repositories
// passed to fn share that transaction, so every write fn performs commits or
// rolls back as one unit.
func (u *pgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("Transaction rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func newTxRepositories(tx pgx.Tx) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Audit:     NewAuditRepository(tx),
		Ledger:    NewLedgerRepository(tx),
		Approvals: NewApprovalRepository(tx),
		Events:    NewEventRepository(tx),
	}
}
