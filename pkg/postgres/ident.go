package postgres

import "github.com/lib/pq"

// QuoteIdentifier returns name quoted for safe use as a SQL identifier.
func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}
