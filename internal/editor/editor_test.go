package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/ledger/memory"
	"tracker/internal/report"
)

var today = time.Date(2025, time.April, 25, 15, 4, 5, 0, time.UTC)

func newEditor(t *testing.T, opts ...Option) (*Editor, *memory.Store) {
	t.Helper()
	store := memory.New(core.SeedTransactions())
	opts = append([]Option{WithClock(func() time.Time { return today }), WithIDGenerator(func() string { return "fixed-id" })}, opts...)
	return New(store, opts...), store
}

func snapshotLen(t *testing.T, s *memory.Store) int {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return len(snap.Transactions)
}

func TestSubmitCoffee(t *testing.T) {
	e, store := newEditor(t)
	ctx := context.Background()

	res, err := e.Submit(ctx, Form{Type: "expense", Amount: "42.5", Description: "Coffee", Category: "Food", Date: "2025-04-25"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Notice.Title != "Success!" || res.Notice.Message != "Expense added successfully" || res.Notice.Variant != VariantDefault {
		t.Fatalf("unexpected notice %+v", res.Notice)
	}
	if res.Next != DefaultForm(today) {
		t.Fatalf("form should reset to defaults, got %+v", res.Next)
	}

	snap, _ := store.Snapshot(ctx)
	if len(snap.Transactions) != 6 {
		t.Fatalf("store length = %d, want 6", len(snap.Transactions))
	}
	head := snap.Transactions[0]
	if head.ID != "fixed-id" || head.Description != "Coffee" || !head.Amount.Equal(core.MustAmount("42.5")) || head.Type != core.Expense {
		t.Fatalf("unexpected head %+v", head)
	}

	s := report.Aggregate(snap.Transactions)
	if !s.Totals.Expense.Equal(core.MustAmount("227.5")) {
		t.Fatalf("expense total = %s, want 227.5", s.Totals.Expense)
	}
	if s.Expense[0].Category != "Food" || !s.Expense[0].Amount.Equal(core.MustAmount("92.5")) {
		t.Fatalf("food total = %+v, want 92.5", s.Expense[0])
	}
}

func TestSubmitIncomeNotice(t *testing.T) {
	e, _ := newEditor(t)
	res, err := e.Submit(context.Background(), Form{Type: "income", Amount: "10", Description: "Gift", Category: "Gifts", Date: "2025-04-25"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Notice.Message != "Income added successfully" || res.Transaction.Type != core.Income {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubmitRejects(t *testing.T) {
	valid := Form{Type: "expense", Amount: "5", Description: "Lunch", Category: "Food", Date: "2025-04-25"}
	tests := []struct {
		name   string
		mutate func(*Form)
		want   error
		field  string
		title  string
	}{
		{"negative amount", func(f *Form) { f.Amount = "-5" }, core.ErrInvalidAmount, "amount", "Invalid amount"},
		{"zero amount", func(f *Form) { f.Amount = "0" }, core.ErrInvalidAmount, "amount", "Invalid amount"},
		{"text amount", func(f *Form) { f.Amount = "ten" }, core.ErrInvalidAmount, "amount", "Invalid amount"},
		{"exponent amount", func(f *Form) { f.Amount = "1e400" }, core.ErrInvalidAmount, "amount", "Invalid amount"},
		{"huge exponent amount", func(f *Form) { f.Amount = "1e99999999" }, core.ErrInvalidAmount, "amount", "Invalid amount"},
		{"empty description", func(f *Form) { f.Description = "" }, core.ErrMissingFields, "description", "Missing fields"},
		{"blank description", func(f *Form) { f.Description = "   " }, core.ErrMissingFields, "description", "Missing fields"},
		{"empty amount", func(f *Form) { f.Amount = "" }, core.ErrMissingFields, "amount", "Missing fields"},
		{"empty category", func(f *Form) { f.Category = "" }, core.ErrMissingFields, "category", "Missing fields"},
		{"empty date", func(f *Form) { f.Date = "" }, core.ErrMissingFields, "date", "Missing fields"},
		{"bad date", func(f *Form) { f.Date = "25/04/2025" }, core.ErrInvalidDate, "date", "Invalid date"},
		{"income category on expense", func(f *Form) { f.Category = "Salary" }, core.ErrUnknownCategory, "category", "Unknown category"},
		{"missing wins over invalid amount", func(f *Form) { f.Amount = "-5"; f.Description = "" }, core.ErrMissingFields, "description", "Missing fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newEditor(t)
			f := valid
			tt.mutate(&f)

			res, err := e.Submit(context.Background(), f)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("field = %v, want %s", err, tt.field)
			}
			if res.Notice.Title != tt.title || res.Notice.Variant != VariantDestructive {
				t.Fatalf("notice = %+v", res.Notice)
			}
			if res.Next != f {
				t.Fatalf("form state should be preserved, got %+v", res.Next)
			}
			if n := snapshotLen(t, store); n != 5 {
				t.Fatalf("store mutated on failure: %d records", n)
			}
		})
	}
}

func TestPermissiveCategories(t *testing.T) {
	e, store := newEditor(t, WithStrictCategories(false))
	_, err := e.Submit(context.Background(), Form{Type: "expense", Amount: "3", Description: "Tip", Category: "Tips", Date: "2025-04-25"})
	if err != nil {
		t.Fatalf("permissive editor rejected custom category: %v", err)
	}
	if n := snapshotLen(t, store); n != 6 {
		t.Fatalf("store length = %d, want 6", n)
	}
}

func TestUnknownTypeBecomesExpense(t *testing.T) {
	e, _ := newEditor(t)
	res, err := e.Submit(context.Background(), Form{Type: "transfer", Amount: "3", Description: "x", Category: "Food", Date: "2025-04-25"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Transaction.Type != core.Expense {
		t.Fatalf("type = %s, want expense", res.Transaction.Type)
	}
}

func TestDefaults(t *testing.T) {
	e, _ := newEditor(t)
	d := e.Defaults()
	if d.Type != "expense" || d.Date != "2025-04-25" || d.Amount != "" {
		t.Fatalf("unexpected defaults %+v", d)
	}
}
