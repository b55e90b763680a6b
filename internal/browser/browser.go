// Package browser narrows a transaction list by search text, category and
// type.
package browser

import (
	"strings"

	"tracker/internal/core"
)

// All disables the category or type filter.
const All = "all"

// Criteria selects transactions. Empty fields behave like All.
type Criteria struct {
	SearchTerm string `json:"q"`
	Category   string `json:"category"`
	Type       string `json:"type"`
}

// Normalize trims the selectors and maps empty or unknown ones to All. The
// search term is kept verbatim, whitespace included.
func (c Criteria) Normalize() Criteria {
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		c.Category = All
	}
	switch t := strings.ToLower(strings.TrimSpace(c.Type)); t {
	case string(core.Income), string(core.Expense):
		c.Type = t
	default:
		c.Type = All
	}
	return c
}

// Result is the filtered view.
type Result struct {
	Criteria     Criteria           `json:"criteria"`
	Transactions []core.Transaction `json:"transactions"`
	Total        int                `json:"total"`
}

// Empty reports whether no transaction matched.
func (r Result) Empty() bool {
	return len(r.Transactions) == 0
}

// Filter returns the transactions matching every criterion, in input order.
// The search term is a case-insensitive substring match on the description.
func Filter(txs []core.Transaction, c Criteria) []core.Transaction {
	c = c.Normalize()
	term := strings.ToLower(c.SearchTerm)

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if term != "" && !strings.Contains(strings.ToLower(tx.Description), term) {
			continue
		}
		if c.Category != All && tx.Category != c.Category {
			continue
		}
		if c.Type != All && string(tx.Type) != c.Type {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Browse filters txs and wraps the outcome.
func Browse(txs []core.Transaction, c Criteria) Result {
	c = c.Normalize()
	return Result{
		Criteria:     c,
		Transactions: Filter(txs, c),
		Total:        len(txs),
	}
}

// CategoryOptions lists the selectable categories: income then expense,
// without duplicates.
func CategoryOptions() []string {
	return core.AllCategories()
}
