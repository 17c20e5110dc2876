package repositories

import (
	"context"
)

// TransactionManager runs units of work atomically. The active transaction
// travels in the context so repositories called inside fn join it.
type TransactionManager interface {
	// WithinTransaction executes fn in a transaction, committing if fn returns nil
	// and rolling back otherwise. A nested call joins the outer transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// OnCommit registers f to run after the enclosing transaction commits. Outside
	// a transaction f runs immediately. Hooks of a rolled back transaction never run.
	OnCommit(ctx context.Context, f func())
}
