package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/ledger"
)

// EventPublisher sends store mutation events to the broker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// TransactionService is a session store that announces every mutation.
// A failed publish is logged and never fails the mutation. Mutations and
// their events are serialized, so events leave in version order.
type TransactionService struct {
	sessionID string
	store     ledger.Store
	publisher EventPublisher

	mu         sync.Mutex
	generation atomic.Uint64
}

var _ ledger.Store = (*TransactionService)(nil)

func NewTransactionService(sessionID string, store ledger.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		sessionID: sessionID,
		store:     store,
		publisher: publisher,
	}
}

// Prepend saves tx locally then publishes a prepended event.
func (s *TransactionService) Prepend(ctx context.Context, tx core.Transaction) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.store.Prepend(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}
	s.generation.Add(1)
	s.publish(ctx, amqp.NewPrependedEvent(s.sessionID, version, tx))
	return version, nil
}

// Replace swaps the collection then publishes a replaced event.
func (s *TransactionService) Replace(ctx context.Context, txs []core.Transaction) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.store.Replace(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("replace transactions: %w", err)
	}
	s.generation.Add(1)
	s.publish(ctx, amqp.NewReplacedEvent(s.sessionID, version, txs))
	return version, nil
}

// Generation counts completed mutations. It changes only after the write is
// visible to Snapshot.
func (s *TransactionService) Generation() uint64 {
	return s.generation.Load()
}

func (s *TransactionService) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Announce publishes the current contents as a replaced event so that
// consumers can build their view of a fresh session.
func (s *TransactionService) Announce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	s.publish(ctx, amqp.NewReplacedEvent(s.sessionID, snap.Version, snap.Transactions))
	return nil
}

// Close closes the underlying store and publishes a closed event. The
// publisher is shared between sessions and stays open.
func (s *TransactionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	s.publish(context.Background(), amqp.NewClosedEvent(s.sessionID))
	return errors.Join(errs...)
}

func (s *TransactionService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping event", "kind", ev.Kind)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", ev.Kind,
			"session_id", s.sessionID,
			"version", ev.Version,
			"error", err)
	}
}
