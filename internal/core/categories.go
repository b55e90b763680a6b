package core

var (
	incomeCategories = []string{"Salary", "Side Income", "Investments", "Gifts", "Other"}

	expenseCategories = []string{
		"Food", "Rent", "Transportation", "Entertainment",
		"Utilities", "Shopping", "Healthcare", "Other",
	}
)

// Categories returns the enumerated category set for a transaction type.
// The returned slice is a copy.
func Categories(t TransactionType) []string {
	src := expenseCategories
	if t.IsIncome() {
		src = incomeCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// AllCategories is the union of income then expense categories with
// duplicates removed, first occurrence wins.
func AllCategories() []string {
	seen := make(map[string]struct{}, len(incomeCategories)+len(expenseCategories))
	out := make([]string, 0, len(incomeCategories)+len(expenseCategories))
	for _, list := range [][]string{incomeCategories, expenseCategories} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// IsKnownCategory reports whether category belongs to the set for t.
func IsKnownCategory(t TransactionType, category string) bool {
	src := expenseCategories
	if t.IsIncome() {
		src = incomeCategories
	}
	for _, c := range src {
		if c == category {
			return true
		}
	}
	return false
}
