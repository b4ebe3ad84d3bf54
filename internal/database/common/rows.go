package common

import (
	"database/sql"
	"fmt"
)

// ScanRows drains a database/sql result set into column-keyed maps.
// Byte-slice values are converted to strings so results serialize cleanly.
func ScanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading result columns: %v", err)
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}

		entry := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			entry[col] = normalizeValue(values[i])
		}
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeValue converts driver-specific scan results to plain Go values.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}
