package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/avolkers/sqlgate/internal/export"
)

// renderResult writes a query result to w in the requested format:
// table (default), csv, or json.
func renderResult(w io.Writer, result export.Result, format string) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, result)
	case "json":
		return export.WriteJSON(w, result)
	case "", "table":
		renderTable(w, result)
		return nil
	default:
		return fmt.Errorf("invalid argument %q for --output: use table, csv or json", format)
	}
}

func renderTable(w io.Writer, result export.Result) {
	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range result.Rows {
		rendered := make(table.Row, len(result.Columns))
		for i := range rendered {
			rendered[i] = ""
			if i < len(row) {
				rendered[i] = export.FormatValue(row[i])
			}
		}
		t.AppendRow(rendered)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(result.Rows))
}
