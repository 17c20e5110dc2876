package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

// txState is the transaction bound to a context plus its after-commit hooks.
type txState struct {
	tx    pgx.Tx
	hooks []func()
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction carried by ctx, or the pool when there is none.
func (r *BaseRepository) db(ctx context.Context) querier {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		return st.tx
	}
	return r.Pool
}

// inTx reports whether ctx carries an open transaction.
func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(*txState)
	return ok
}

// PgxTransactionManager implements portsrepo.TransactionManager on a pgx pool.
type PgxTransactionManager struct {
	BaseRepository
}

func newPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction runs fn inside a database transaction.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	st := &txState{tx: tx}
	// Will be ignored if transaction is committed successfully
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txCtxKey{}, st)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", mapPgError(err))
	}

	for _, hook := range st.hooks {
		hook()
	}
	return nil
}

// OnCommit queues f until the transaction in ctx commits.
func (m *PgxTransactionManager) OnCommit(ctx context.Context, f func()) {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		st.hooks = append(st.hooks, f)
		return
	}
	f()
}

// lockKey takes a transaction-scoped advisory lock on key. Outside a transaction
// the lock would be released immediately, so it is skipped.
func (r *BaseRepository) lockKey(ctx context.Context, key string) error {
	if !inTx(ctx) {
		return nil
	}
	if _, err := r.db(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, key); err != nil {
		return apperrors.NewAppError(500, "failed to acquire numbering lock "+key, err)
	}
	return nil
}

// mapPgError turns constraint violations into application errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // Unique violation
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case "23503": // Foreign key violation
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.ConstraintName)
		}
	}
	return err
}

// mapNumberingError reports a unique violation on a reference number as a
// retryable numbering collision.
func mapNumberingError(err error, constraint string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint {
		return fmt.Errorf("%w: %s", apperrors.ErrNumberingCollision, constraint)
	}
	return mapPgError(err)
}
