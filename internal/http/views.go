package http

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"tracker/internal/browser"
	"tracker/internal/core"
	"tracker/internal/editor"
	"tracker/internal/report"
)

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"percent": func(p float64) string {
		return strconv.FormatFloat(p, 'f', 1, 64) + "%"
	},
}

type legendRow struct {
	Label   string
	Amount  string
	Color   string
	Percent float64
}

type chartView struct {
	Kind      string
	Title     string
	EmptyText string
	Empty     bool
	Src       string
	Total     string
	Legend    []legendRow
}

type summaryView struct {
	Title    string
	Month    string
	Version  uint64
	Count    int
	Income   string
	Expense  string
	Balance  string
	Negative bool
	Charts   []chartView
}

type txRow struct {
	ID          string
	Description string
	Category    string
	Date        string
	Amount      string
	Income      bool
}

type transactionsView struct {
	Criteria   browser.Criteria
	Categories []string
	Rows       []txRow
	Empty      bool
	Shown      int
	Total      int
}

type formView struct {
	Form       editor.Form
	Income     bool
	Categories []string
}

type dashboardView struct {
	Title string
	Month string
	Form  formView
}

type contactView struct {
	Name    string
	Email   string
	Message string
}

func newSummaryView(res summaryResult, month MonthParam, now time.Time) summaryView {
	title := report.PeriodTitle(now)
	if !month.IsZero() {
		title = report.PeriodTitle(time.Date(month.Year, time.Month(month.Month), 1, 0, 0, 0, 0, time.UTC))
	}
	totals := res.Summary.Totals
	v := summaryView{
		Title:    title,
		Month:    month.String(),
		Version:  res.Version,
		Count:    res.Count,
		Income:   report.FormatCurrency(totals.Income),
		Expense:  report.FormatCurrency(totals.Expense),
		Balance:  report.FormatCurrency(totals.Balance),
		Negative: totals.Balance.IsNegative(),
	}
	for _, kind := range []core.TransactionType{core.Expense, core.Income} {
		v.Charts = append(v.Charts, newChartView(kind, report.ChartFor(res.Summary, kind), res.Version, month))
	}
	return v
}

func newChartView(kind core.TransactionType, c report.ChartData, version uint64, month MonthParam) chartView {
	src := "/charts/" + string(kind) + ".svg?v=" + strconv.FormatUint(version, 10)
	if !month.IsZero() {
		src += "&month=" + month.String()
	}
	v := chartView{
		Kind:      string(kind),
		Title:     c.Title,
		EmptyText: c.EmptyText,
		Empty:     c.Empty(),
		Src:       src,
		Total:     report.FormatCurrency(c.Total),
	}
	for _, sl := range c.Slices {
		v.Legend = append(v.Legend, legendRow{
			Label:   sl.Label,
			Amount:  report.FormatCurrency(sl.Value),
			Color:   sl.Color,
			Percent: sl.Percent,
		})
	}
	return v
}

func newTransactionsView(res browser.Result) transactionsView {
	v := transactionsView{
		Criteria:   res.Criteria,
		Categories: browser.CategoryOptions(),
		Empty:      res.Empty(),
		Shown:      len(res.Transactions),
		Total:      res.Total,
	}
	for _, tx := range res.Transactions {
		v.Rows = append(v.Rows, txRow{
			ID:          tx.ID,
			Description: tx.Description,
			Category:    tx.Category,
			Date:        report.FormatDate(tx.Date),
			Amount:      report.FormatSigned(tx),
			Income:      tx.Type.IsIncome(),
		})
	}
	return v
}

func newFormView(f editor.Form) formView {
	t := core.NormalizeType(f.Type)
	f.Type = string(t)
	return formView{
		Form:       f,
		Income:     t.IsIncome(),
		Categories: core.Categories(t),
	}
}
