// Package memory is an in-process ledger implementing the repository ports.
// Transactions are serialized: Begin blocks until the previous transaction
// commits or rolls back, which gives every FOR UPDATE read the same
// exclusivity the database provides.
package memory

import (
	"context"
	"errors"
	"sync"

	"wager-treasury/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTxDone is returned when a finished transaction is committed again.
var ErrTxDone = errors.New("memory: transaction already finished")

// Store holds every table of the ledger.
type Store struct {
	txMu sync.Mutex // held for the lifetime of a transaction

	mu          sync.RWMutex
	wallets     map[domain.WalletRole]*domain.Wallet
	commitments map[uuid.UUID]*domain.Commitment
	txRefs      map[string]*domain.UsedTxRef
	counters    map[string]*domain.RateLimitCounter
	stats       map[domain.StatKind]map[string]*domain.DailyStat
	buybacks    map[uuid.UUID]*domain.BuybackRecord
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{
		wallets:     make(map[domain.WalletRole]*domain.Wallet),
		commitments: make(map[uuid.UUID]*domain.Commitment),
		txRefs:      make(map[string]*domain.UsedTxRef),
		counters:    make(map[string]*domain.RateLimitCounter),
		stats: map[domain.StatKind]map[string]*domain.DailyStat{
			domain.StatKindPayout:   {},
			domain.StatKindTransfer: {},
		},
		buybacks: make(map[uuid.UUID]*domain.BuybackRecord),
	}
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	return &memTx{store: s}, nil
}

// memTx satisfies pgx.Tx for the repositories in this package. Only Commit
// and Rollback are implemented; the embedded interface is nil.
type memTx struct {
	pgx.Tx
	store *Store
	undo  []func()
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.undo = nil
	t.store.txMu.Unlock()
	return nil
}

// Rollback reverts every write made through the transaction. Rolling back a
// finished transaction is a no-op, matching the deferred-rollback idiom.
func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()
	t.undo = nil
	t.store.txMu.Unlock()
	return nil
}

// onRollback registers fn to run if tx rolls back. Callers hold s.mu.
func onRollback(tx pgx.Tx, fn func()) {
	if mt, ok := tx.(*memTx); ok {
		mt.undo = append(mt.undo, fn)
	}
}
