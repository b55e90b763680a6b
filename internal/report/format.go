package report

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// FormatCurrency renders an amount as dollars with thousands separators,
// e.g. $1,234.50 or -$35.00.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	f, _ := d.Round(2).Float64()
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatSigned renders a transaction amount with + for income and - for
// expenses, as shown in transaction lists.
func FormatSigned(tx core.Transaction) string {
	if tx.Type.IsIncome() {
		return "+" + FormatCurrency(tx.Amount)
	}
	return "-" + FormatCurrency(tx.Amount)
}

// FormatDate renders a date as "Apr 1, 2025".
func FormatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// PeriodTitle is the dashboard heading for the month containing now,
// e.g. "April 2025 Summary".
func PeriodTitle(now time.Time) string {
	return now.Format("January 2006") + " Summary"
}
