package translate

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// aggregateFuncs maps the restricted selection set allowed inside an
// _aggregate field's sub-selections to the SQL aggregate function each
// invokes. "count" is handled separately: it takes no nested column
// selection and always lowers to COUNT(*).
var aggregateFuncs = map[string]string{
	"min": "MIN",
	"max": "MAX",
	"avg": "AVG",
	"sum": "SUM",
}

// lowerAggregateField is the aggregate handler: an
// `_aggregate`-suffixed field resolves to its own relation (still requiring
// @relation when nested, per resolveRelation; root _aggregate fields fall
// back to the name-derived table the same way any other root field does)
// and lowers to a scalar subquery producing one JSON object keyed by
// whichever of count/min/max/avg/sum the caller selected.
func lowerAggregateField(lc *loweringCtx, field *ast.Field, parentPath string, isRoot bool, path []string) (*jsonquery.Select, error) {
	rd, err := resolveRelation(field, isRoot, path)
	if err != nil {
		return nil, err
	}

	basePath := lc.aa.basePath(parentPath, rd.Table)

	where, err := buildJoinPredicate(rd, parentPath)
	if err != nil {
		return nil, err
	}
	if argFilter := field.Arguments.ForName("filter"); argFilter != nil {
		e, err := compileFilter(argFilter.Value, lc.vc, path)
		if err != nil {
			return nil, err
		}
		where = append(where, e)
	}
	if rd.ExtraFilter != nil {
		e, err := compileFilter(rd.ExtraFilter, lc.vc, path)
		if err != nil {
			return nil, err
		}
		where = append(where, e)
	}

	base := &jsonquery.Select{From: jsonquery.FromItem{Table: rd.Table}, Where: where}

	args := make([]jsonquery.Expr, 0, len(field.SelectionSet)*2)
	for _, sel := range field.SelectionSet {
		f, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		switch f.Name {
		case "count":
			args = append(args, jsonquery.StringLit{Value: "count"}, jsonquery.FuncCall{Name: "COUNT", Args: []jsonquery.Expr{jsonquery.Star{}}})
		default:
			fn, ok := aggregateFuncs[strings.ToLower(f.Name)]
			if !ok {
				return nil, newErr(InvalidArgumentShape, withStep(path, f.Name), "unrecognized aggregate selection %q", f.Name)
			}
			cols, err := aggregateColumnObject(fn, f, path)
			if err != nil {
				return nil, err
			}
			args = append(args, jsonquery.StringLit{Value: f.Name}, cols)
		}
	}

	obj := jsonquery.FuncCall{Name: "json_build_object", Args: args}

	return &jsonquery.Select{
		Columns: []jsonquery.Column{{Expr: obj}},
		From:    jsonquery.FromItem{Sub: base, Alias: basePath},
	}, nil
}

// aggregateColumnObject renders the json_build_object(col, FUNC("col"), ...)
// expression for one of min/max/avg/sum's nested column selections.
func aggregateColumnObject(fn string, field *ast.Field, path []string) (jsonquery.Expr, error) {
	args := make([]jsonquery.Expr, 0, len(field.SelectionSet)*2)
	for _, sel := range field.SelectionSet {
		col, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		args = append(args, jsonquery.StringLit{Value: col.Name}, jsonquery.FuncCall{Name: fn, Args: []jsonquery.Expr{jsonquery.Ident{Name: col.Name}}})
	}
	return jsonquery.FuncCall{Name: "json_build_object", Args: args}, nil
}
