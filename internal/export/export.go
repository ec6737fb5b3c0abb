package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// Result pairs column names with materialized rows for rendering and export.
type Result struct {
	Columns []string
	Rows    []sqlgate.Row
}

// WriteCSV writes the result as CSV with a header row.
func WriteCSV(w io.Writer, result Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatValue(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the result as an array of objects keyed by column name.
func WriteJSON(w io.Writer, result Result) error {
	objects := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		obj := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		objects = append(objects, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

// WriteFile writes the result to path in the format implied by the file
// extension (.csv or .json).
func WriteFile(path string, result Result) error {
	var write func(io.Writer, Result) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".json":
		write = WriteJSON
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .json)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := write(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ListDataFiles returns the names of regular files under dir that carry one
// of the given suffixes, sorted alphabetically. Suffix matching is
// case-insensitive.
func ListDataFiles(dir string, suffixes ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, suffix := range suffixes {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
				names = append(names, name)
				break
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// FormatValue renders a single column value for text output. NULL becomes
// the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
