package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"tracker/internal/core"
)

func TestExpenseChart(t *testing.T) {
	c := ExpenseChart(Aggregate(core.SeedTransactions()))
	if c.Empty() {
		t.Fatalf("expected slices")
	}
	labels := c.Labels()
	if strings.Join(labels, ",") != "Food,Utilities,Entertainment" {
		t.Fatalf("unexpected labels %v", labels)
	}
	if c.Slices[0].Color != "#f87171" || c.Slices[2].Color != "#fbbf24" {
		t.Fatalf("unexpected colors %+v", c.Slices)
	}
	if !c.Values()[1].Equal(core.MustAmount("100")) {
		t.Fatalf("unexpected values %v", c.Values())
	}
}

func TestIncomeChartEmpty(t *testing.T) {
	c := IncomeChart(Aggregate([]core.Transaction{tx("a", "5", "Food", core.Expense)}))
	if !c.Empty() {
		t.Fatalf("expected empty income chart")
	}
	if c.EmptyText != "No income data" {
		t.Fatalf("EmptyText = %q", c.EmptyText)
	}
}

func TestChartPaletteCycles(t *testing.T) {
	var txs []core.Transaction
	for i, cat := range []string{"A", "B", "C", "D", "E", "F"} {
		txs = append(txs, tx(string(rune('a'+i)), "1", cat, core.Income))
	}
	c := ChartFor(Aggregate(txs), core.Income)
	if len(c.Slices) != 6 {
		t.Fatalf("expected 6 slices, got %d", len(c.Slices))
	}
	if c.Slices[5].Color != c.Slices[0].Color {
		t.Fatalf("palette should wrap: %s vs %s", c.Slices[5].Color, c.Slices[0].Color)
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSVG(ExpenseChart(Aggregate(core.SeedTransactions())), &buf); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("output is not svg: %.80s", buf.String())
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSVG(IncomeChart(Summary{}), &buf)
	if !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
}
