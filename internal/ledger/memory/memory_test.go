package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

func TestPrependKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(core.SeedTransactions())

	coffee := core.Transaction{ID: "c", Description: "Coffee", Amount: core.MustAmount("42.5"), Category: "Food", Date: core.NewDate(2025, 4, 25), Type: core.Expense}
	version, err := s.Prepend(ctx, coffee)
	if err != nil || version != 1 {
		t.Fatalf("Prepend = %d, %v", version, err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Transactions) != 6 || snap.Transactions[0].ID != "c" || snap.Transactions[1].ID != "1" {
		t.Fatalf("unexpected order: %+v", snap.Transactions)
	}
	if snap.Version != 1 {
		t.Fatalf("version = %d, want 1", snap.Version)
	}
}

func TestStoreDoesNotValidate(t *testing.T) {
	s := New(nil)
	bad := core.Transaction{Amount: core.MustAmount("-5")}
	if _, err := s.Prepend(context.Background(), bad); err != nil {
		t.Fatalf("store must accept anything, got %v", err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(core.SeedTransactions())
	snap, _ := s.Snapshot(ctx)
	snap.Transactions[0].Description = "mutated"

	again, _ := s.Snapshot(ctx)
	if again.Transactions[0].Description != "Monthly Salary" {
		t.Fatalf("snapshot shares memory with store")
	}
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	s := New(core.SeedTransactions())
	if _, err := s.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	snap, _ := s.Snapshot(ctx)
	if len(snap.Transactions) != 0 || snap.Version != 1 {
		t.Fatalf("unexpected snapshot after replace: %+v", snap)
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	_ = s.Close()
	if _, err := s.Prepend(ctx, core.Transaction{}); !errors.Is(err, ledger.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Snapshot(ctx); !errors.Is(err, ledger.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestConcurrentPrepend(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Prepend(ctx, core.Transaction{Amount: core.MustAmount("1")})
		}()
	}
	wg.Wait()
	snap, _ := s.Snapshot(ctx)
	if len(snap.Transactions) != 50 || snap.Version != 50 {
		t.Fatalf("lost updates: len=%d version=%d", len(snap.Transactions), snap.Version)
	}
}
