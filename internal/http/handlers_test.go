package http

import (
	"context"
	"testing"

	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/session"
	"tracker/internal/storage"
)

func newSQLiteSession(t *testing.T) *session.Session {
	t.Helper()
	repo, err := storage.NewSeededRepository(context.Background(), storage.MemoryDSN, core.SeedTransactions())
	if err != nil {
		t.Fatalf("NewSeededRepository: %v", err)
	}
	store := services.NewTransactionService("sqlite-session", repo, nil)
	t.Cleanup(func() { store.Close() })
	return &session.Session{ID: "sqlite-session", Store: store, CreatedAt: testNow}
}

func TestSummarizeIgnoresCallerCancellation(t *testing.T) {
	srv := newTestServer(t, nil)
	sess := newSQLiteSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := srv.summarize(ctx, sess, MonthParam{})
	if err != nil {
		t.Fatalf("summarize with cancelled caller: %v", err)
	}
	if res.Count != 5 || res.Summary.Totals.Expense.String() != "185" {
		t.Fatalf("unexpected summary %+v", res)
	}
}

func TestSummarizeSeesCompletedWrites(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, nil)
	sess := newSQLiteSession(t)

	if _, err := srv.summarize(ctx, sess, MonthParam{}); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	before := sess.Store.Generation()
	coffee := core.Transaction{ID: "c", Description: "Coffee", Amount: core.MustAmount("42.5"), Category: "Food", Date: core.NewDate(2025, 4, 25), Type: core.Expense}
	if _, err := sess.Store.Prepend(ctx, coffee); err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	if sess.Store.Generation() == before {
		t.Fatal("generation unchanged after a write, summaries would be shared across it")
	}

	res, err := srv.summarize(ctx, sess, MonthParam{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if res.Count != 6 || res.Summary.Totals.Expense.String() != "227.5" {
		t.Fatalf("summary missed the write: %+v", res)
	}
}
