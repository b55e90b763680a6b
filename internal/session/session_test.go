package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/ledger/memory"
	"tracker/internal/services"
)

type memFactory struct {
	created atomic.Int32
	fail    bool
}

func (f *memFactory) CreateStore(_ context.Context, id string) (*services.TransactionService, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	f.created.Add(1)
	return services.NewTransactionService(id, memory.New(core.SeedTransactions()), nil), nil
}

func TestResolveCreatesAndReuses(t *testing.T) {
	ctx := context.Background()
	f := &memFactory{}
	m := NewManager(f, Config{TTL: time.Minute, MaxSessions: 10}, nil)

	s, created, err := m.Resolve(ctx, "")
	if err != nil || !created {
		t.Fatalf("Resolve(\"\") = %v, %v", created, err)
	}
	again, created, err := m.Resolve(ctx, s.ID)
	if err != nil || created || again != s {
		t.Fatalf("expected the same session, created=%v err=%v", created, err)
	}
	if _, created, _ := m.Resolve(ctx, "unknown"); !created {
		t.Fatal("unknown id should yield a new session")
	}
	if f.created.Load() != 2 || m.Active() != 2 {
		t.Fatalf("created=%d active=%d", f.created.Load(), m.Active())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&memFactory{}, Config{TTL: time.Minute, MaxSessions: 10}, nil)
	a, _ := m.Create(ctx)
	b, _ := m.Create(ctx)

	if _, err := a.Store.Prepend(ctx, core.Transaction{ID: "x"}); err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	snapA, _ := a.Store.Snapshot(ctx)
	snapB, _ := b.Store.Snapshot(ctx)
	if len(snapA.Transactions) != 6 || len(snapB.Transactions) != 5 {
		t.Fatalf("a=%d b=%d", len(snapA.Transactions), len(snapB.Transactions))
	}
}

func TestEvictionClosesStore(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&memFactory{}, Config{TTL: time.Minute, MaxSessions: 1}, nil)
	first, _ := m.Create(ctx)
	if _, err := m.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := m.Get(first.ID); ok {
		t.Fatal("first session should have been evicted")
	}
	if _, err := first.Store.Snapshot(ctx); err == nil {
		t.Fatal("evicted session store should be closed")
	}
}

func TestEndAndClose(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&memFactory{}, Config{TTL: time.Minute, MaxSessions: 10}, nil)
	a, _ := m.Create(ctx)
	b, _ := m.Create(ctx)

	m.End(a.ID)
	if _, ok := m.Get(a.ID); ok {
		t.Fatal("ended session still present")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := b.Store.Snapshot(ctx); err == nil {
		t.Fatal("Close should close all stores")
	}
}

func TestCreateFailure(t *testing.T) {
	m := NewManager(&memFactory{fail: true}, Config{TTL: time.Minute, MaxSessions: 10}, nil)
	if _, _, err := m.Resolve(context.Background(), ""); err == nil {
		t.Fatal("expected factory error")
	}
	if m.Active() != 0 {
		t.Fatalf("Active = %d", m.Active())
	}
}
