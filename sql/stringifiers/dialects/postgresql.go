package dialects

import (
	"strings"
)

// PostgreSQL implements dialect.Dialect. It once also carried Placeholder,
// a dozen feature-support flags, and eight SQL-fragment formatters
// (FormatJoinType, FormatBinaryOp, ...) inherited from the mutation-building
// dialect this package was grounded on; those had no caller once mutation
// support was dropped and were removed along with the enum types
// (ast.JoinType, ast.BinaryOp, ...) that existed only to parameterize them.
type PostgreSQL struct{}

func (d PostgreSQL) Name() string { return "postgresql" }
func (d PostgreSQL) QuoteIdentifier(identifier string) string {
	return `"` + d.EscapeIdentifier(identifier) + `"`
}
func (d PostgreSQL) QuoteString(value string) string {
	return `'` + d.EscapeString(value) + `'`
}

func (d PostgreSQL) EscapeString(value string) string {
	return strings.ReplaceAll(value, `'`, `''`)
}

func (d PostgreSQL) EscapeIdentifier(identifier string) string {
	return strings.ReplaceAll(identifier, `"`, `""`)
}
