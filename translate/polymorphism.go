package translate

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// lowerFragments is the polymorphism handler: each inline fragment (after
// FragmentSpread resolution in selection.go) becomes its own sibling LATERAL
// join, keyed by its type condition, and the fragments collectively
// contribute one CASE expression fusing whichever branch matched onto the
// base row. "At most one branch should match" is a caller obligation the
// translator does not enforce; the ELSE arm (an empty jsonb_build_object())
// is what makes an all-NULL outcome well-defined anyway.
func lowerFragments(lc *loweringCtx, fragments []*ast.InlineFragment, basePath string, path []string) ([]jsonquery.LateralJoin, jsonquery.Expr, error) {
	if len(fragments) == 0 {
		return nil, nil, nil
	}

	joins := make([]jsonquery.LateralJoin, 0, len(fragments))
	whens := make([]jsonquery.CaseWhen, 0, len(fragments))

	for _, frag := range fragments {
		typeName := frag.TypeCondition
		childPath := withStep(path, typeName)

		include, err := shouldInclude(frag.Directives, lc.vc.vars, lc.vc.defaults, childPath)
		if err != nil {
			return nil, nil, err
		}
		if !include {
			continue
		}

		rd, err := resolveFragmentRelation(frag, typeName, childPath)
		if err != nil {
			return nil, nil, err
		}

		childSelect, err := lowerRelationBody(lc, rd, nil, frag.SelectionSet, basePath, childPath)
		if err != nil {
			return nil, nil, err
		}
		childSelect.Columns[0].Alias = typeName

		alias := lc.aa.siblingAlias(basePath, rd.Table)
		joins = append(joins, jsonquery.LateralJoin{Alias: alias, Sub: childSelect})

		whens = append(whens, jsonquery.CaseWhen{
			Cond:   jsonquery.IsNull{Expr: jsonquery.Qualified{Qualifier: alias, Name: typeName}, Negate: true},
			Result: jsonquery.FuncCall{Name: "to_jsonb", Args: []jsonquery.Expr{jsonquery.Ident{Name: typeName}}},
		})
	}

	if len(whens) == 0 {
		return joins, nil, nil
	}

	caseExpr := jsonquery.Case{
		Whens: whens,
		Else:  jsonquery.FuncCall{Name: "jsonb_build_object"},
	}
	return joins, caseExpr, nil
}

// resolveFragmentRelation mirrors resolveRelation for inline fragments,
// which carry @relation directly (no field name to fall back to): a
// directive-less fragment falls back to its own type condition as the table
// name, the fragment analog of a directive-less top-level field's fallback.
// Fragments always fuse as a single row (to_jsonb(...) of one object),
// regardless of any @relation(single:) value.
func resolveFragmentRelation(frag *ast.InlineFragment, typeName string, path []string) (*relationDescriptor, error) {
	rd, err := parseRelation(frag.Directives, path)
	if err != nil {
		return nil, err
	}

	table := rd.Table
	if table == "" {
		table = typeName
	}
	return &relationDescriptor{
		Table:         table,
		ParentColumns: rd.References,
		ChildColumns:  rd.Field,
		Single:        true,
		ExtraFilter:   rd.Filter,
		ExtraDistinct: rd.Distinct,
	}, nil
}
