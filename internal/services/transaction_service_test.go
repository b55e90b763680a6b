package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/ledger/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, ev *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func TestTransactionService_PrependPublishes(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewTransactionService("s1", memory.New(core.SeedTransactions()), pub)

	tx := core.Transaction{ID: "new", Description: "Coffee", Amount: core.MustAmount("42.5"), Category: "Food", Type: core.Expense}
	version, err := svc.Prepend(ctx, tx)
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Kind != amqp.EventPrepended || ev.SessionID != "s1" || ev.Version != 1 || ev.Transaction.ID != "new" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestTransactionService_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("connection refused")}
	svc := NewTransactionService("s1", memory.New(nil), pub)

	if _, err := svc.Replace(ctx, core.SeedTransactions()); err != nil {
		t.Fatalf("Replace should succeed despite publish failure: %v", err)
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil || len(snap.Transactions) != 5 {
		t.Fatalf("Snapshot = %d records, %v", len(snap.Transactions), err)
	}
}

func TestTransactionService_NilPublisher(t *testing.T) {
	svc := NewTransactionService("s1", memory.New(nil), nil)
	if _, err := svc.Prepend(context.Background(), core.Transaction{ID: "x"}); err != nil {
		t.Fatalf("Prepend without publisher: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestTransactionService_AnnounceAndClose(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService("s9", memory.New(core.SeedTransactions()), pub)

	if err := svc.Announce(context.Background()); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	if pub.events[0].Kind != amqp.EventReplaced || len(pub.events[0].Transactions) != 5 {
		t.Fatalf("unexpected announce event %+v", pub.events[0])
	}
	if pub.events[1].Kind != amqp.EventClosed {
		t.Fatalf("unexpected close event %+v", pub.events[1])
	}
	if _, err := svc.Snapshot(context.Background()); err == nil {
		t.Fatalf("store should be closed")
	}
}

func TestTransactionService_ConcurrentPrependsPublishInVersionOrder(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewTransactionService("s1", memory.New(nil), pub)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := core.Transaction{ID: "tx", Description: "Coffee", Amount: core.MustAmount("1"), Category: "Food", Type: core.Expense}
			if _, err := svc.Prepend(ctx, tx); err != nil {
				t.Errorf("Prepend: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(pub.events) != writers {
		t.Fatalf("expected %d events, got %d", writers, len(pub.events))
	}
	for i, ev := range pub.events {
		if ev.Version != uint64(i+1) {
			t.Fatalf("event %d has version %d, want %d", i, ev.Version, i+1)
		}
	}
	if svc.Generation() != writers {
		t.Fatalf("generation = %d, want %d", svc.Generation(), writers)
	}
}

func TestTransactionService_GenerationSkipsFailedWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	svc := NewTransactionService("s1", store, nil)

	if _, err := svc.Replace(ctx, core.SeedTransactions()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if svc.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", svc.Generation())
	}
	store.Close()
	if _, err := svc.Prepend(ctx, core.Transaction{ID: "x"}); err == nil {
		t.Fatal("expected error from closed store")
	}
	if svc.Generation() != 1 {
		t.Fatalf("failed write changed generation to %d", svc.Generation())
	}
}
