package sheets

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"ledger/internal/core"
	"ledger/internal/store"
)

// isMissingRange reports whether err is the Sheets answer for a range on a
// tab that does not exist yet.
func isMissingRange(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return false
	}
	return strings.Contains(gerr.Message, "Unable to parse range")
}

// recordsFromValues converts a values matrix (as returned by the Sheets API)
// into records. Row 1 must be the header. An empty matrix is a tab that was
// never initialized and reads as an empty ledger. Sheets drops trailing empty
// cells, so short rows are padded; blank rows are skipped.
func recordsFromValues(sheet string, values [][]interface{}, schema core.Schema) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if err := store.CheckHeader(sheet, toStrings(values[0]), schema); err != nil {
		return nil, err
	}

	width := len(schema.Columns)
	var out []core.Record
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		if len(row) > width {
			return nil, &store.FormatError{
				Source: sheet,
				Line:   i + 1,
				Reason: fmt.Sprintf("row has %d fields, want %d", len(row), width),
			}
		}
		out = append(out, core.RecordFromFields(row))
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toRow(fields []string) []interface{} {
	out := make([]interface{}, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// lastColumn returns the A1 column letter for a 1-based column count (n <= 26).
func lastColumn(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 26 {
		n = 26
	}
	return string(rune('A' + n - 1))
}

// quoteSheet wraps a sheet title in single quotes for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
