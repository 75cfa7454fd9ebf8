package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/resample"
)

// Workbook sheet names.
const (
	SheetTransactions = "Transactions"
	SheetSummary      = "Summary"
	SheetDaily        = "Daily"
)

// WriteXLSX writes a workbook with the selected transactions, the summary
// and the daily series. Amounts are numeric cells.
func WriteXLSX(w io.Writer, schema core.Schema, res query.Result, series resample.Series) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetDaily} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header := schema.Header()
	rows := [][]interface{}{{header[0], header[1], header[2], header[3]}}
	for _, tx := range res.Transactions {
		rows = append(rows, []interface{}{
			schema.FormatDate(tx.Date),
			tx.Amount.InexactFloat64(),
			string(tx.Category),
			tx.Description,
		})
	}
	if err := writeRows(f, SheetTransactions, rows); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Start", schema.FormatDate(res.Start)},
		{"End", schema.FormatDate(res.End)},
		{"Total Income", res.Summary.TotalIncome.InexactFloat64()},
		{"Total Expense", res.Summary.TotalExpense.InexactFloat64()},
		{"Net Savings", res.Summary.NetSavings.InexactFloat64()},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	daily := [][]interface{}{{"date", "income", "expense"}}
	for i := range series.Income {
		daily = append(daily, []interface{}{
			schema.FormatDate(series.Income[i].Date),
			series.Income[i].Amount.InexactFloat64(),
			series.Expense[i].Amount.InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetDaily, daily); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetTransactions, "A", "D", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
