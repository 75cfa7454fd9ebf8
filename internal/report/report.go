// Package report renders query results for people and for external tools:
// a console table with its summary, the daily series as CSV and an XLSX
// workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/resample"
)

// NoTransactionsMessage is printed for an empty selection.
const NoTransactionsMessage = "No transactions in the given date range"

// WriteView prints the heading, table and summary of res, or the
// no-transactions message when the selection is empty.
func WriteView(w io.Writer, schema core.Schema, res query.Result) error {
	if res.Empty {
		_, err := fmt.Fprintln(w, NoTransactionsMessage)
		return err
	}
	if _, err := fmt.Fprintf(w, "Transactions from %s to %s\n",
		schema.FormatDate(res.Start), schema.FormatDate(res.End)); err != nil {
		return err
	}
	if err := WriteTable(w, schema, res.Transactions); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return WriteSummary(w, res.Summary)
}

// WriteTable prints txs as aligned columns under the schema header.
func WriteTable(w io.Writer, schema core.Schema, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	h := schema.Header()
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h[0], h[1], h[2], h[3])
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			schema.FormatDate(tx.Date), tx.Amount.String(), tx.Category, tx.Description)
	}
	return tw.Flush()
}

// WriteSummary prints the three totals with two decimals.
func WriteSummary(w io.Writer, s query.Summary) error {
	_, err := fmt.Fprintf(w, "Summary:\nTotal Income: $%s\nTotal Expense: $%s\nNet Savings: $%s\n",
		core.FormatAmount(s.TotalIncome),
		core.FormatAmount(s.TotalExpense),
		core.FormatAmount(s.NetSavings))
	return err
}

// WriteSeriesCSV writes date,income,expense rows, one per day on the axis.
func WriteSeriesCSV(w io.Writer, schema core.Schema, s resample.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "income", "expense"}); err != nil {
		return fmt.Errorf("write series header: %w", err)
	}
	for i := range s.Income {
		row := []string{
			schema.FormatDate(s.Income[i].Date),
			core.FormatAmount(s.Income[i].Amount),
			core.FormatAmount(s.Expense[i].Amount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write series row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
