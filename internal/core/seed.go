package core

// SeedTransactions returns the example data every new store starts with,
// in store order.
func SeedTransactions() []Transaction {
	return []Transaction{
		{ID: "1", Description: "Monthly Salary", Amount: MustAmount("3500"), Category: "Salary", Date: NewDate(2025, 4, 1), Type: Income},
		{ID: "2", Description: "Dinner with friends", Amount: MustAmount("50"), Category: "Food", Date: NewDate(2025, 4, 10), Type: Expense},
		{ID: "3", Description: "Electricity bill", Amount: MustAmount("100"), Category: "Utilities", Date: NewDate(2025, 4, 15), Type: Expense},
		{ID: "4", Description: "Freelance work", Amount: MustAmount("200"), Category: "Side Income", Date: NewDate(2025, 4, 20), Type: Income},
		{ID: "5", Description: "Movie night", Amount: MustAmount("35"), Category: "Entertainment", Date: NewDate(2025, 4, 22), Type: Expense},
	}
}
