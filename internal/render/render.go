// Package render turns the filtered ledger into display rows. A render
// always replaces the whole list.
package render

import (
	"fmt"
	"io"
	"iter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"expense-tracker-tui/internal/ledger"
)

// Row is one visible expense. ID keys the edit and delete affordances.
type Row struct {
	ID       int64
	Name     string
	Amount   string
	Date     string
	Category string
}

// Summary holds the formatted derived totals.
type Summary struct {
	Income   string
	Expenses string
	Balance  string
}

func Rows(seq iter.Seq[ledger.ExpenseRecord]) []Row {
	rows := []Row{}
	for r := range seq {
		rows = append(rows, Row{
			ID:       r.ID,
			Name:     r.Name,
			Amount:   ledger.FormatAmount(r.Amount),
			Date:     r.Date,
			Category: r.Category,
		})
	}
	return rows
}

func Summarize(t ledger.Totals) Summary {
	return Summary{
		Income:   ledger.FormatAmount(t.Income),
		Expenses: ledger.FormatAmount(t.Expenses),
		Balance:  ledger.FormatAmount(t.Balance),
	}
}

// WriteTable prints rows and totals as a plain table, for non-interactive use.
func WriteTable(w io.Writer, rows []Row, s Summary) {
	fmt.Fprintf(w, "Income: %s  Expenses: %s  Balance: %s\n\n", s.Income, s.Expenses, s.Balance)

	if len(rows) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Name", "Category", "Amount"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Date, r.Name, r.Category, r.Amount})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "Total", s.Expenses})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.Render()
}
