package memory

import (
	"context"
	"sync"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Transaction
	version uint64
	closed  bool
}

var _ ledger.Store = (*Store)(nil)

// New returns a store holding a copy of initial, in order.
func New(initial []core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), initial...)}
}

// Prepend stores tx ahead of every existing record.
func (s *Store) Prepend(_ context.Context, tx core.Transaction) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ledger.ErrClosed
	}
	items := make([]core.Transaction, 0, len(s.items)+1)
	items = append(items, tx)
	s.items = append(items, s.items...)
	s.version++
	return s.version, nil
}

// Replace discards the current records in favour of txs.
func (s *Store) Replace(_ context.Context, txs []core.Transaction) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ledger.ErrClosed
	}
	s.items = append([]core.Transaction(nil), txs...)
	s.version++
	return s.version, nil
}

// Snapshot returns a copy of the records and the current version.
func (s *Store) Snapshot(_ context.Context) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ledger.Snapshot{}, ledger.ErrClosed
	}
	return ledger.Snapshot{
		Version:      s.version,
		Transactions: append([]core.Transaction(nil), s.items...),
	}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}
