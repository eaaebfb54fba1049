package translate

import "fmt"

// Kind identifies one of the translator's fatal error conditions.
// Every Kind is fatal to the call that raised it; none are retryable.
type Kind string

const (
	ParseError            Kind = "ParseError"
	EmptyDocument         Kind = "EmptyDocument"
	UnresolvedVariable    Kind = "UnresolvedVariable"
	MissingRelation       Kind = "MissingRelation"
	RelationArityMismatch Kind = "RelationArityMismatch"
	UnknownOperator       Kind = "UnknownOperator"
	InvalidArgumentShape  Kind = "InvalidArgumentShape"
	InternalInvariant     Kind = "InternalInvariant"
)

// Error is the translator's fatal error type. It carries a GraphQL-path
// breadcrumb (e.g. "app.components.elements", the dot-joined field names
// from the root) so a caller can
// localize the offending node without re-walking the document, in the same
// Message/Path shape this codebase's GraphQL error types have always used,
// narrowed to the closed Kind set this translator actually raises.
type Error struct {
	Kind    Kind
	Message string
	Path    []string
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, joinPath(e.Path))
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func newErr(kind Kind, path []string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Path: append([]string(nil), path...)}
}

func withStep(path []string, step string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, step)
}
