package common

import (
	"fmt"
	"strconv"
	"strings"
)

// NullSentinel is the textual stand-in for NULL that the edit boundary sends
// when a cell holds no value.
const NullSentinel = "NULL"

// IsEmptyValue reports whether a cell value carries no content: nil, an empty
// string, or the NULL sentinel.
func IsEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "" || s == NullSentinel
}

// FormatLiteral renders a value as an embedded SQL literal for backends or
// statements that cannot use parameter binding. Single quotes are doubled,
// NULL is rendered bare, and numeric values are never quoted.
func FormatLiteral(v interface{}) string {
	if v == nil {
		return NullSentinel
	}

	switch val := v.(type) {
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []byte:
		return quoteString(string(val))
	case string:
		if val == NullSentinel {
			return NullSentinel
		}
		return quoteString(val)
	default:
		return quoteString(fmt.Sprintf("%v", val))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
