package translate

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// loweringCtx bundles the state every lowering function in this package
// needs: the value-lowering context (variables/defaults/parameter table),
// the alias arena, and the document's fragment definitions (for resolving
// fragment spreads). One loweringCtx is built per Translate call and passed
// down by pointer; nothing in it is mutated concurrently.
type loweringCtx struct {
	vc        *valueCtx
	aa        *aliasArena
	fragments ast.FragmentDefinitionList
}

func outputKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}

// lowerRelationBody is selection lowering for a single
// relation descriptor and its selection set. It is shared by every caller
// that produces one "row group": top-level fields (translator.go), nested
// @relation fields, and inline fragments (polymorphism.go) all funnel
// through here with their own relationDescriptor/arguments/selection set.
//
// fieldArgs is nil for inline fragments, which carry no GraphQL arguments of
// their own; filter/distinct then come only from @relation's nested
// arguments, and no order is applied. parentPath == "" marks the root call: no join predicate is
// emitted and the base alias is "base" rather than a nested dotted path.
func lowerRelationBody(lc *loweringCtx, rd *relationDescriptor, fieldArgs ast.ArgumentList, selSet ast.SelectionSet, parentPath string, path []string) (*jsonquery.Select, error) {
	basePath := lc.aa.basePath(parentPath, rd.Table)

	where, err := buildJoinPredicate(rd, parentPath)
	if err != nil {
		return nil, err
	}

	useArgs := fieldArgs != nil && !rd.IsFunction

	if useArgs {
		if argFilter := fieldArgs.ForName("filter"); argFilter != nil {
			e, err := compileFilter(argFilter.Value, lc.vc, path)
			if err != nil {
				return nil, err
			}
			where = append(where, e)
		}
	}
	if rd.ExtraFilter != nil {
		e, err := compileFilter(rd.ExtraFilter, lc.vc, path)
		if err != nil {
			return nil, err
		}
		where = append(where, e)
	}

	var distinctNode *ast.Value
	if useArgs {
		if d := fieldArgs.ForName("distinct"); d != nil {
			distinctNode = d.Value
		}
	}
	if distinctNode == nil {
		distinctNode = rd.ExtraDistinct
	}
	var dspec *distinctSpec
	if distinctNode != nil {
		dspec, err = compileDistinct(distinctNode, lc.vc, path)
		if err != nil {
			return nil, err
		}
	}

	var orderItems []jsonquery.OrderItem
	if useArgs {
		if o := fieldArgs.ForName("order"); o != nil {
			orderItems, err = compileOrder(o.Value, path)
			if err != nil {
				return nil, err
			}
		}
	}

	var limitExpr, offsetExpr jsonquery.Expr
	if rd.Single {
		limitExpr = jsonquery.NumberLit{Value: "1"}
	} else if useArgs {
		if l := fieldArgs.ForName("limit"); l != nil {
			limitExpr, err = lowerValue(lc.vc, l.Value, path)
			if err != nil {
				return nil, err
			}
		}
		if o := fieldArgs.ForName("offset"); o != nil {
			offsetExpr, err = lowerValue(lc.vc, o.Value, path)
			if err != nil {
				return nil, err
			}
		}
	}

	baseFrom := jsonquery.FromItem{Table: rd.Table}
	if rd.IsFunction {
		funcArgs := make([]jsonquery.Expr, 0, len(fieldArgs))
		for _, a := range fieldArgs {
			v, err := lowerValue(lc.vc, a.Value, path)
			if err != nil {
				return nil, err
			}
			funcArgs = append(funcArgs, v)
		}
		baseFrom = jsonquery.FromItem{Func: &jsonquery.FuncCall{Name: rd.Table, Args: funcArgs}}
	}

	base := &jsonquery.Select{From: baseFrom, Where: where, Limit: limitExpr, Offset: offsetExpr}
	if dspec != nil {
		base.DistinctOn = dspec.On
		base.OrderBy = dspec.InternalOrder
	}

	sourceSelect := base
	if dspec != nil && len(orderItems) > 0 {
		// DISTINCT ON plus a further outer ORDER BY wraps once more as
		// "SELECT * FROM (<distinct-on>) AS sorter ORDER BY ...".
		sourceSelect = &jsonquery.Select{From: jsonquery.FromItem{Sub: base, Alias: "sorter"}, OrderBy: orderItems}
	} else if dspec == nil {
		base.OrderBy = orderItems
	}

	columns := make([]jsonquery.Column, 0, len(selSet))
	var joins []jsonquery.LateralJoin
	var fragments []*ast.InlineFragment

	for _, sel := range selSet {
		switch s := sel.(type) {
		case *ast.Field:
			childPath := withStep(path, s.Name)
			include, err := shouldInclude(s.Directives, lc.vc.vars, lc.vc.defaults, childPath)
			if err != nil {
				return nil, err
			}
			if !include {
				continue
			}
			key := outputKey(s)

			if s.Name == "__typename" {
				columns = append(columns, jsonquery.Column{Expr: jsonquery.StringLit{Value: rd.Table}, Alias: key})
				continue
			}
			if sd := parseStatic(s.Directives); sd.present {
				lit, err := lowerValue(lc.vc, sd.Value, childPath)
				if err != nil {
					return nil, err
				}
				columns = append(columns, jsonquery.Column{Expr: lit, Alias: key})
				continue
			}
			if isAggregateConvention(s.Name) {
				aggSelect, err := lowerAggregateField(lc, s, basePath, false, childPath)
				if err != nil {
					return nil, err
				}
				columns = append(columns, jsonquery.Column{Expr: jsonquery.Subquery{Select: aggSelect}, Alias: key})
				continue
			}
			if len(s.SelectionSet) > 0 {
				childRD, err := resolveRelation(s, false, childPath)
				if err != nil {
					return nil, err
				}
				childSelect, err := lowerRelationBody(lc, childRD, s.Arguments, s.SelectionSet, basePath, childPath)
				if err != nil {
					return nil, err
				}
				childSelect.Columns[0].Alias = key
				alias := lc.aa.siblingAlias(basePath, childRD.Table)
				joins = append(joins, jsonquery.LateralJoin{Alias: alias, Sub: childSelect})
				columns = append(columns, jsonquery.Column{Expr: jsonquery.Ident{Name: key}})
				continue
			}
			columns = append(columns, jsonquery.Column{Expr: jsonquery.Qualified{Qualifier: basePath, Name: s.Name}, Alias: key})

		case *ast.InlineFragment:
			fragments = append(fragments, s)

		case *ast.FragmentSpread:
			def := lc.fragments.ForName(s.Name)
			if def == nil {
				return nil, newErr(InternalInvariant, withStep(path, s.Name), "fragment %q is not defined in the document", s.Name)
			}
			fragments = append(fragments, &ast.InlineFragment{
				TypeCondition: def.TypeCondition,
				Directives:    s.Directives,
				SelectionSet:  def.SelectionSet,
			})
		}
	}

	fragJoins, caseExpr, err := lowerFragments(lc, fragments, basePath, path)
	if err != nil {
		return nil, err
	}
	joins = append(joins, fragJoins...)

	middle := &jsonquery.Select{
		Columns: columns,
		From:    jsonquery.FromItem{Sub: sourceSelect, Alias: basePath},
		Joins:   joins,
	}

	rootRef := jsonquery.Ident{Name: "root"}
	var rowExpr jsonquery.Expr = jsonquery.FuncCall{Name: "to_json", Args: []jsonquery.Expr{rootRef}}
	if caseExpr != nil {
		// Fuse the base row with exactly the matching fragment.
		rowExpr = jsonquery.JSONBConcat{
			Left:  jsonquery.Cast{Expr: jsonquery.FuncCall{Name: "to_json", Args: []jsonquery.Expr{rootRef}}, Type: "jsonb"},
			Right: caseExpr,
		}
	}

	var aggExpr jsonquery.Expr
	if rd.Single {
		aggExpr = rowExpr
	} else {
		aggExpr = jsonquery.FuncCall{Name: "coalesce", Args: []jsonquery.Expr{
			jsonquery.FuncCall{Name: "json_agg", Args: []jsonquery.Expr{rowExpr}},
			jsonquery.StringLit{Value: "[]"},
		}}
	}

	return &jsonquery.Select{
		Columns: []jsonquery.Column{{Expr: aggExpr}},
		From:    jsonquery.FromItem{Sub: middle, Alias: "root"},
	}, nil
}

// buildJoinPredicate renders the pairwise parent_alias.ref_i = field_i
// comparisons that anchor a relation's subquery to its parent row. The root
// call (parentPath == "") has none.
func buildJoinPredicate(rd *relationDescriptor, parentPath string) ([]jsonquery.Expr, error) {
	if parentPath == "" {
		return nil, nil
	}
	preds := make([]jsonquery.Expr, 0, len(rd.ChildColumns))
	for i := range rd.ChildColumns {
		preds = append(preds, jsonquery.Binary{
			Left:  jsonquery.Ident{Name: rd.ChildColumns[i]},
			Op:    "=",
			Right: jsonquery.Qualified{Qualifier: parentPath, Name: rd.ParentColumns[i]},
		})
	}
	return preds, nil
}
