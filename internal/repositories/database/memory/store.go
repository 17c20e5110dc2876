// Package memory keeps every repository in process memory. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
)

type txCtxKey struct{}

// txState carries a transaction's private copy of the tables. Readers outside
// the transaction keep seeing the committed tables until commit swaps it in.
type txState struct {
	mu    sync.Mutex
	data  tables
	hooks []func()
}

type failure struct {
	skip int
	err  error
}

// Store implements all repository ports. Transactions are serialized by txMu
// and work on a copy of the tables that replaces the committed data only when
// fn succeeds.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	data tables

	failMu   sync.Mutex
	failures map[string]*failure
}

type tables struct {
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	configs   map[string]domain.BillingConfig
	heads     map[string]domain.ChargeHead
	units     map[string]domain.Unit
	overrides map[string]domain.UnitRateOverride
	invoices  map[string]domain.Invoice
	payments  map[string]domain.Payment
}

func newTables() tables {
	return tables{
		accounts:  map[string]domain.Account{},
		entries:   map[string]domain.JournalEntry{},
		configs:   map[string]domain.BillingConfig{},
		heads:     map[string]domain.ChargeHead{},
		units:     map[string]domain.Unit{},
		overrides: map[string]domain.UnitRateOverride{},
		invoices:  map[string]domain.Invoice{},
		payments:  map[string]domain.Payment{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t tables) clone() tables {
	return tables{
		accounts:  cloneMap(t.accounts),
		entries:   cloneMap(t.entries),
		configs:   cloneMap(t.configs),
		heads:     cloneMap(t.heads),
		units:     cloneMap(t.units),
		overrides: cloneMap(t.overrides),
		invoices:  cloneMap(t.invoices),
		payments:  cloneMap(t.payments),
	}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newTables(), failures: map[string]*failure{}}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     s,
		AccountRepo:   s,
		JournalRepo:   s,
		BillingRepo:   s,
		InvoiceRepo:   s,
		PaymentRepo:   s,
		ReportingRepo: s,
	}
}

var (
	_ portsrepo.TransactionManager           = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*Store)(nil)
	_ portsrepo.BillingSetupRepositoryFacade = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade      = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ReportingRepository          = (*Store)(nil)
)

// WithinTransaction runs fn with exclusive write access to the store.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		return fn(ctx)
	}

	st := &txState{}
	if err := s.runExclusive(ctx, st, fn); err != nil {
		return err
	}
	for _, hook := range st.hooks {
		hook()
	}
	return nil
}

func (s *Store) runExclusive(ctx context.Context, st *txState, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	st.data = s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, st)); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = st.data
	s.mu.Unlock()
	return nil
}

// OnCommit queues f until the transaction in ctx commits.
func (s *Store) OnCommit(ctx context.Context, f func()) {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		st.hooks = append(st.hooks, f)
		return
	}
	f()
}

// write runs fn against the transaction's tables when ctx carries one.
// Outside a transaction it holds txMu so it cannot interleave with one.
func (s *Store) write(ctx context.Context, op string, fn func(t *tables) error) error {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		if err := s.injected(op); err != nil {
			return err
		}
		st.mu.Lock()
		defer st.mu.Unlock()
		return fn(&st.data)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := s.injected(op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// read sees the transaction's own writes when ctx carries one, and only
// committed data otherwise.
func (s *Store) read(ctx context.Context, fn func(t *tables)) {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		st.mu.Lock()
		defer st.mu.Unlock()
		fn(&st.data)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// FailAfter makes the named write operation return err once it has succeeded
// skip more times. It exists for exercising rollback paths.
func (s *Store) FailAfter(op string, skip int, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = &failure{skip: skip, err: err}
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	delete(s.failures, op)
	return f.err
}
