// Package report folds transactions into category and overall totals and
// shapes the results for charts and summary figures.
package report

import (
	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Summary is the full aggregation of one transaction set.
type Summary struct {
	Income  []core.CategoryTotal `json:"income"`
	Expense []core.CategoryTotal `json:"expense"`
	Totals  core.MonthlyTotal    `json:"totals"`
}

// Aggregate computes per-category totals for both types plus the overall
// income, expense and balance in a single pass over txs.
//
// Categories appear in order of first occurrence in txs. Amounts are summed
// as given; any record whose type is not income counts as an expense.
func Aggregate(txs []core.Transaction) Summary {
	var s Summary
	income := decimal.Zero
	expense := decimal.Zero

	incomeIdx := make(map[string]int)
	expenseIdx := make(map[string]int)

	for _, tx := range txs {
		if tx.Type.IsIncome() {
			s.Income = accumulate(s.Income, incomeIdx, tx)
			income = income.Add(tx.Amount)
			continue
		}
		s.Expense = accumulate(s.Expense, expenseIdx, tx)
		expense = expense.Add(tx.Amount)
	}

	s.Totals = core.MonthlyTotal{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
	return s
}

func accumulate(totals []core.CategoryTotal, idx map[string]int, tx core.Transaction) []core.CategoryTotal {
	if i, ok := idx[tx.Category]; ok {
		totals[i].Amount = totals[i].Amount.Add(tx.Amount)
		return totals
	}
	idx[tx.Category] = len(totals)
	return append(totals, core.CategoryTotal{Category: tx.Category, Amount: tx.Amount})
}

// CategoryTotals returns the per-category totals of a single type.
func CategoryTotals(txs []core.Transaction, t core.TransactionType) []core.CategoryTotal {
	s := Aggregate(txs)
	if t.IsIncome() {
		return s.Income
	}
	return s.Expense
}

// InMonth returns the subsequence of txs dated within year/month.
func InMonth(txs []core.Transaction, year, month int) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			out = append(out, tx)
		}
	}
	return out
}

// Share returns part as a percentage of whole, rounded to one decimal.
func Share(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return f
}
