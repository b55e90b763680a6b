package report

import (
	"testing"
	"time"

	"tracker/internal/core"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":       "$0.00",
		"35":      "$35.00",
		"1234.5":  "$1,234.50",
		"3515":    "$3,515.00",
		"-42.125": "-$42.13",
	}
	for in, want := range cases {
		if got := FormatCurrency(core.MustAmount(in)); got != want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	seed := core.SeedTransactions()
	if got := FormatSigned(seed[0]); got != "+$3,500.00" {
		t.Fatalf("income = %q", got)
	}
	if got := FormatSigned(seed[1]); got != "-$50.00" {
		t.Fatalf("expense = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(core.NewDate(2025, 4, 1)); got != "Apr 1, 2025" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(core.Date{}); got != "" {
		t.Fatalf("zero date should format empty, got %q", got)
	}
}

func TestPeriodTitle(t *testing.T) {
	now := time.Date(2025, time.April, 18, 10, 0, 0, 0, time.UTC)
	if got := PeriodTitle(now); got != "April 2025 Summary" {
		t.Fatalf("PeriodTitle = %q", got)
	}
}
