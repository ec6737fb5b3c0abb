package datamanager

import (
	"database/sql"

	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// collectRows materializes a result set in order. The result is never nil,
// even when the set is empty, so callers can range over it without checks.
func collectRows(rows *sql.Rows) ([]sqlgate.Row, error) {
	_, result, err := collectRowsWithColumns(rows)
	return result, err
}

// collectRowsWithColumns materializes a result set along with its column
// names, for callers that render or export results.
func collectRowsWithColumns(rows *sql.Rows) ([]string, []sqlgate.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	result := make([]sqlgate.Row, 0, 16)
	for rows.Next() {
		values := make(sqlgate.Row, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, err
		}
		for i, v := range values {
			// Drivers hand text columns back as raw bytes; surface them
			// as strings so the values are usable without casts.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, result, nil
}
