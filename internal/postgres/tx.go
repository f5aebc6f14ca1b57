package postgres

import (
	"context"

	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor runs a function against a transaction-scoped Querier. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(q repository.Querier) error) error
}

// PoolTransactor opens transactions on a pgx pool.
type PoolTransactor struct {
	pool *pgxpool.Pool
	repo *repository.Queries
}

var _ Transactor = (*PoolTransactor)(nil)

func NewTransactor(pool *pgxpool.Pool) *PoolTransactor {
	return &PoolTransactor{pool: pool, repo: repository.New(pool)}
}

func (t *PoolTransactor) InTx(ctx context.Context, fn func(q repository.Querier) error) (err error) {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return dbError(err, "tx.begin", "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(t.repo.WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return dbError(err, "tx.commit", "failed to commit transaction")
	}
	return nil
}
