package dialect

import (
	"github.com/lateralquery/gqlpg/sql/stringifiers/dialects"
)

// Dialect is narrowed to the methods sql/jsonquery's emitter calls (quoting
// identifiers and string literals) plus Name. It previously also declared
// Placeholder, a dozen feature-support flags, and eight SQL-fragment
// formatters inherited from a mutation-building dialect package; none of
// those had a caller once the mutation path was dropped, so they were cut
// along with the sql/ast enum package they existed only to parameterize.
type Dialect interface {
	Name() string

	QuoteIdentifier(identifier string) string
	QuoteString(value string) string
}

// PostgreSQL is the only Dialect this repository emits against; exported as
// a value of the interface type so callers (the jsonquery emitter) depend on
// Dialect's method set, not the concrete dialects.PostgreSQL type.
var PostgreSQL Dialect = dialects.PostgreSQL{}
