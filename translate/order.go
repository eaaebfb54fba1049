package translate

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// distinctSpec is the compiled form of a `distinct` argument: the DISTINCT
// ON key columns plus the ORDER BY that must accompany them
// inside the same subquery (DISTINCT ON requires its leading ORDER BY
// columns to match the DISTINCT ON list).
type distinctSpec struct {
	On            []jsonquery.Expr
	InternalOrder []jsonquery.OrderItem
}

// compileOrder handles the `order` argument: an object mapping column ->
// ASC|DESC, or a list of single-key objects of the same shape, preserving
// argument order.
func compileOrder(v *ast.Value, path []string) ([]jsonquery.OrderItem, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Kind {
	case ast.ObjectValue:
		items := make([]jsonquery.OrderItem, 0, len(v.Children))
		for _, c := range v.Children {
			dir, ok := literalString(c.Value)
			if !ok {
				return nil, newErr(InvalidArgumentShape, path, "order: direction for %q must be an enum/string", c.Name)
			}
			items = append(items, jsonquery.OrderItem{Expr: jsonquery.Ident{Name: c.Name}, Desc: dir == "DESC"})
		}
		return items, nil
	case ast.ListValue:
		items := make([]jsonquery.OrderItem, 0, len(v.Children))
		for _, elem := range v.Children {
			ev := elem.Value
			if ev == nil || ev.Kind != ast.ObjectValue || len(ev.Children) != 1 {
				return nil, newErr(InvalidArgumentShape, path, "order: each list entry must be a single-key {column: direction} object")
			}
			c := ev.Children[0]
			dir, ok := literalString(c.Value)
			if !ok {
				return nil, newErr(InvalidArgumentShape, path, "order: direction for %q must be an enum/string", c.Name)
			}
			items = append(items, jsonquery.OrderItem{Expr: jsonquery.Ident{Name: c.Name}, Desc: dir == "DESC"})
		}
		return items, nil
	default:
		return nil, newErr(InvalidArgumentShape, path, "order must be an object or a list")
	}
}

// compileDistinct handles the `distinct` argument: `on` becomes the
// DISTINCT ON key, and `order` (each entry a {expr, dir} pair
// whose expr is filter-shaped, compiled via the filter compiler so a
// DISTINCT ON can prefer rows matching a predicate) becomes the subquery's
// own ORDER BY, seeded with the `on` columns themselves in ascending order
// so the leading ORDER BY columns satisfy PostgreSQL's DISTINCT ON rule.
func compileDistinct(v *ast.Value, vc *valueCtx, path []string) (*distinctSpec, error) {
	if v == nil {
		return nil, nil
	}
	if v.Kind != ast.ObjectValue {
		return nil, newErr(InvalidArgumentShape, path, "distinct must be an input object")
	}
	cols, ok := literalStringList(childValue(v, "on"))
	if !ok {
		return nil, newErr(InvalidArgumentShape, path, "distinct.on must be a list of strings")
	}

	onExprs := make([]jsonquery.Expr, len(cols))
	internal := make([]jsonquery.OrderItem, 0, len(cols))
	for i, c := range cols {
		onExprs[i] = jsonquery.Ident{Name: c}
		internal = append(internal, jsonquery.OrderItem{Expr: jsonquery.Ident{Name: c}})
	}

	if orderV := childValue(v, "order"); orderV != nil {
		if orderV.Kind != ast.ListValue {
			return nil, newErr(InvalidArgumentShape, path, "distinct.order must be a list")
		}
		for _, item := range orderV.Children {
			entry := item.Value
			dirStr, _ := literalString(childValue(entry, "dir"))
			expr, err := compileFilter(childValue(entry, "expr"), vc, path)
			if err != nil {
				return nil, err
			}
			internal = append(internal, jsonquery.OrderItem{Expr: expr, Desc: dirStr == "DESC"})
		}
	}

	return &distinctSpec{On: onExprs, InternalOrder: internal}, nil
}
