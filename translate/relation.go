package translate

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// relationDescriptor is the relation resolver's output: enough information
// for selection lowering to build a field's base source and join predicate
// without re-reading its directives.
type relationDescriptor struct {
	Table         string
	ParentColumns []string // @relation's "references": columns on the parent row
	ChildColumns  []string // @relation's "field": columns on the child table
	Single        bool
	ExtraFilter   *ast.Value
	ExtraDistinct *ast.Value
	IsFunction    bool // @args present: Table names a function, not a table
}

// resolveRelation is the relation resolver for fields, including
// _aggregate fields (lowerAggregateField calls it too); inline fragments
// resolve through resolveFragmentRelation instead. At root (isRoot == true) a
// directive-less field falls back to a name-derived table. At any other
// depth a field reaching this function must carry @relation.
func resolveRelation(field *ast.Field, isRoot bool, path []string) (*relationDescriptor, error) {
	rd, err := parseRelation(field.Directives, path)
	if err != nil {
		return nil, err
	}
	ad := parseArgs(field.Directives)

	single := rd.Single || isOneConvention(field.Name)

	if rd.present {
		table := rd.Table
		if table == "" {
			table = field.Name
		}
		return &relationDescriptor{
			Table:         table,
			ParentColumns: rd.References,
			ChildColumns:  rd.Field,
			Single:        single,
			ExtraFilter:   rd.Filter,
			ExtraDistinct: rd.Distinct,
			IsFunction:    ad.present,
		}, nil
	}

	if isRoot {
		return &relationDescriptor{
			Table:      stripConventionSuffix(field.Name),
			Single:     single,
			IsFunction: ad.present,
		}, nil
	}

	return nil, newErr(MissingRelation, path, "nested field %q has no @relation and is not a recognized convention", field.Name)
}

func isAggregateConvention(name string) bool { return strings.HasSuffix(name, "_aggregate") }
func isOneConvention(name string) bool       { return strings.HasSuffix(name, "_one") }

func stripConventionSuffix(name string) string {
	if isAggregateConvention(name) {
		return strings.TrimSuffix(name, "_aggregate")
	}
	if isOneConvention(name) {
		return strings.TrimSuffix(name, "_one")
	}
	return name
}
