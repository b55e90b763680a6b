// Command tracker-cli prints the ledger summary and a filtered transaction
// table, optionally adding one transaction first.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"tracker/internal/browser"
	"tracker/internal/cli"
	"tracker/internal/core"
	"tracker/internal/editor"
	"tracker/internal/log"
	"tracker/internal/report"
	"tracker/internal/storage"
)

type options struct {
	dsn      string
	search   string
	category string
	txType   string
	month    string
	chart    string
	strict   bool

	add         bool
	kind        string
	amount      string
	description string
	addCategory string
	date        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tracker-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dsn, "db", storage.MemoryDSN, "SQLite database file; the default is a throwaway in-memory ledger")
	fs.StringVar(&o.search, "q", "", "case-insensitive description search")
	fs.StringVar(&o.category, "category", browser.All, "category filter")
	fs.StringVar(&o.txType, "type", browser.All, "type filter: income, expense or all")
	fs.StringVar(&o.month, "month", "", "limit the summary to YYYY-MM")
	fs.StringVar(&o.chart, "chart", "", "write the expense chart as PNG to this path")
	fs.BoolVar(&o.strict, "strict", true, "reject categories outside the enumerated sets")

	fs.BoolVar(&o.add, "add", false, "add a transaction before printing")
	fs.StringVar(&o.kind, "kind", string(core.Expense), "type of the added transaction")
	fs.StringVar(&o.amount, "amount", "", "amount of the added transaction")
	fs.StringVar(&o.description, "description", "", "description of the added transaction")
	fs.StringVar(&o.addCategory, "add-category", "", "category of the added transaction")
	fs.StringVar(&o.date, "date", time.Now().Format(core.DateLayout), "date of the added transaction")

	err := fs.Parse(args)
	return o, err
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentCLI, os.Stderr)

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		logger.Error("tracker-cli failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	repo, err := storage.NewSQLiteRepository(o.dsn)
	if err != nil {
		return err
	}
	defer repo.Close()

	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := repo.Replace(ctx, core.SeedTransactions()); err != nil {
			return fmt.Errorf("seed ledger: %w", err)
		}
	}

	if o.add {
		ed := editor.New(repo, editor.WithStrictCategories(o.strict))
		res, err := ed.Submit(ctx, editor.Form{
			Type:        o.kind,
			Amount:      o.amount,
			Description: o.description,
			Category:    o.addCategory,
			Date:        o.date,
		})
		if err != nil {
			return fmt.Errorf("%s: %s: %w", res.Notice.Title, res.Notice.Message, err)
		}
		fmt.Fprintf(out, "%s %s\n\n", res.Notice.Title, res.Notice.Message)
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return err
	}

	txs := snap.Transactions
	title := report.PeriodTitle(time.Now())
	if o.month != "" {
		m, err := time.Parse("2006-01", o.month)
		if err != nil {
			return fmt.Errorf("invalid -month %q: %w", o.month, err)
		}
		txs = report.InMonth(txs, m.Year(), int(m.Month()))
		title = report.PeriodTitle(m)
	}
	summary := report.Aggregate(txs)

	fmt.Fprintln(out, title)
	printSummary(out, summary)
	fmt.Fprintln(out)
	printTransactions(out, browser.Browse(snap.Transactions, browser.Criteria{
		SearchTerm: o.search,
		Category:   o.category,
		Type:       o.txType,
	}))

	if o.chart != "" {
		return writeChart(out, o.chart, report.ExpenseChart(summary))
	}
	return nil
}

// writeChart renders c as PNG to path. Nothing is written for an empty chart.
func writeChart(out io.Writer, path string, c report.ChartData) error {
	var buf bytes.Buffer
	err := report.RenderPNG(c, &buf)
	if errors.Is(err, report.ErrNothingToRender) {
		fmt.Fprintf(out, "\n%s, chart not written\n", c.EmptyText)
		return nil
	}
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(out, "\nExpense chart saved to: %s\n", path)
	return nil
}

func printSummary(out io.Writer, s report.Summary) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Type", "Category", "Amount", "Share"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, group := range []struct {
		label  string
		totals []core.CategoryTotal
		whole  decimal.Decimal
	}{
		{"Income", s.Income, s.Totals.Income},
		{"Expense", s.Expense, s.Totals.Expense},
	} {
		for _, ct := range group.totals {
			table.Append([]string{
				group.label,
				ct.Category,
				report.FormatCurrency(ct.Amount),
				fmt.Sprintf("%.1f%%", report.Share(ct.Amount, group.whole)),
			})
		}
	}

	table.SetFooter([]string{
		"Balance",
		report.FormatCurrency(s.Totals.Balance),
		"Income " + report.FormatCurrency(s.Totals.Income),
		"Expenses " + report.FormatCurrency(s.Totals.Expense),
	})
	table.Render()
}

func printTransactions(out io.Writer, res browser.Result) {
	if res.Empty() {
		fmt.Fprintln(out, "No transactions found")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Date", "Description", "Category", "Amount"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, tx := range res.Transactions {
		table.Append([]string{
			report.FormatDate(tx.Date),
			tx.Description,
			tx.Category,
			report.FormatSigned(tx),
		})
	}
	table.SetCaption(true, fmt.Sprintf("%d of %d transactions", len(res.Transactions), res.Total))
	table.Render()
}
