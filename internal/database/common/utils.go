package common

import (
	"strings"
)

// QuoteIdentifier escapes and wraps an identifier with the backend's quote
// character (double quote for PostgreSQL/SQLite, backtick for MySQL).
func QuoteIdentifier(name, quote string) string {
	// Double any embedded quote characters to escape them
	name = strings.ReplaceAll(name, quote, quote+quote)
	return quote + name + quote
}

// QuoteIdentifiers quotes every identifier in a slice.
func QuoteIdentifiers(names []string, quote string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n, quote)
	}
	return quoted
}
