package report

import (
	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

var (
	expensePalette = []string{
		"#f87171", "#fb923c", "#fbbf24", "#a3e635", "#34d399",
		"#2dd4bf", "#22d3ee", "#38bdf8", "#818cf8", "#a78bfa",
	}
	incomePalette = []string{"#4ade80", "#60a5fa", "#a78bfa", "#34d399", "#fbbf24"}
)

// Slice is one labelled wedge of a breakdown chart.
type Slice struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Color   string          `json:"color"`
	Percent float64         `json:"percent"`
}

// ChartData is a proportional breakdown ready to be drawn.
type ChartData struct {
	Title     string          `json:"title"`
	Slices    []Slice         `json:"slices"`
	Total     decimal.Decimal `json:"total"`
	EmptyText string          `json:"empty_text,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (c ChartData) Empty() bool {
	return len(c.Slices) == 0
}

func (c ChartData) Labels() []string {
	out := make([]string, len(c.Slices))
	for i, s := range c.Slices {
		out[i] = s.Label
	}
	return out
}

func (c ChartData) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.Slices))
	for i, s := range c.Slices {
		out[i] = s.Value
	}
	return out
}

// ExpenseChart shapes the expense breakdown of s.
func ExpenseChart(s Summary) ChartData {
	return newChart("Expenses by Category", "No expense data", s.Expense, s.Totals.Expense, expensePalette)
}

// IncomeChart shapes the income breakdown of s.
func IncomeChart(s Summary) ChartData {
	return newChart("Income by Category", "No income data", s.Income, s.Totals.Income, incomePalette)
}

// ChartFor returns the breakdown for the given type.
func ChartFor(s Summary, t core.TransactionType) ChartData {
	if t.IsIncome() {
		return IncomeChart(s)
	}
	return ExpenseChart(s)
}

func newChart(title, emptyText string, totals []core.CategoryTotal, sum decimal.Decimal, palette []string) ChartData {
	c := ChartData{Title: title, Total: sum}
	if len(totals) == 0 {
		c.EmptyText = emptyText
		return c
	}
	c.Slices = make([]Slice, len(totals))
	for i, ct := range totals {
		c.Slices[i] = Slice{
			Label:   ct.Category,
			Value:   ct.Amount,
			Color:   palette[i%len(palette)],
			Percent: Share(ct.Amount, sum),
		}
	}
	return c
}
