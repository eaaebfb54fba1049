package translate

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// operators is the recognized comparison operator set.
var operators = map[string]string{
	"eq":    "=",
	"neq":   "<>",
	"lt":    "<",
	"lte":   "<=",
	"gt":    ">",
	"gte":   ">=",
	"like":  "LIKE",
	"ilike": "ILIKE",
}

// childValue returns the value bound to name inside an ObjectValue's
// Children, or nil. Grounded on graph/field_collector.go's evaluateValue,
// which walks the same Children list by hand rather than via a lookup
// method — kept that way here since gqlparser's ChildValueList does not
// expose a generic by-name accessor for object fields (ForName is only
// defined on ArgumentList/DirectiveList).
func childValue(v *ast.Value, name string) *ast.Value {
	if v == nil {
		return nil
	}
	for _, c := range v.Children {
		if c.Name == name {
			return c.Value
		}
	}
	return nil
}

// compileFilter is the filter compiler: it accepts
// either the canonical {field, operator, value, logicalOperator, children}
// shape or the sugared {col: {op: val}, or/and/not: [...]} shape and returns
// a single boolean SQL expression.
func compileFilter(v *ast.Value, vc *valueCtx, path []string) (jsonquery.Expr, error) {
	if v == nil {
		return nil, nil
	}
	if v.Kind != ast.ObjectValue {
		return nil, newErr(InvalidArgumentShape, path, "filter must be an input object")
	}
	if childValue(v, "field") != nil && childValue(v, "operator") != nil {
		return compileCanonicalFilter(v, vc, path)
	}
	return compileSugaredFilter(v, vc, path)
}

func compileCanonicalFilter(v *ast.Value, vc *valueCtx, path []string) (jsonquery.Expr, error) {
	fieldName, ok := literalString(childValue(v, "field"))
	if !ok {
		return nil, newErr(InvalidArgumentShape, path, "canonical filter: \"field\" must be a string")
	}
	opName, ok := literalString(childValue(v, "operator"))
	if !ok {
		return nil, newErr(InvalidArgumentShape, path, "canonical filter: \"operator\" must be a string")
	}
	cond, err := compileOperator(fieldName, opName, childValue(v, "value"), vc, path)
	if err != nil {
		return nil, err
	}

	childrenV := childValue(v, "children")
	if childrenV == nil {
		return cond, nil
	}
	if childrenV.Kind != ast.ListValue {
		return nil, newErr(InvalidArgumentShape, path, "canonical filter: \"children\" must be a list")
	}
	nodes := []jsonquery.Expr{cond}
	for _, c := range childrenV.Children {
		kid, err := compileFilter(c.Value, vc, path)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, kid)
	}
	logical, _ := literalString(childValue(v, "logicalOperator"))
	if logical == "OR" {
		return jsonquery.Or{Exprs: nodes}, nil
	}
	return jsonquery.And{Exprs: nodes}, nil
}

func compileSugaredFilter(v *ast.Value, vc *valueCtx, path []string) (jsonquery.Expr, error) {
	var nodes []jsonquery.Expr
	for _, c := range v.Children {
		switch c.Name {
		case "or", "and":
			if c.Value == nil || c.Value.Kind != ast.ListValue {
				return nil, newErr(InvalidArgumentShape, path, "%q must be a list of filters", c.Name)
			}
			branch := make([]jsonquery.Expr, 0, len(c.Value.Children))
			for _, item := range c.Value.Children {
				e, err := compileFilter(item.Value, vc, path)
				if err != nil {
					return nil, err
				}
				branch = append(branch, e)
			}
			if c.Name == "or" {
				nodes = append(nodes, jsonquery.Or{Exprs: branch})
			} else {
				nodes = append(nodes, jsonquery.And{Exprs: branch})
			}
		case "not":
			e, err := compileFilter(c.Value, vc, path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, jsonquery.Not{Expr: e})
		default:
			cond, err := compileBareColumn(c.Name, c.Value, vc, path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, cond...)
		}
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return jsonquery.And{Exprs: nodes}, nil
}

// compileBareColumn handles a sugared filter's bare column key: either an
// operator map ({eq: ...}, possibly several operators ANDed) or a direct
// scalar value, which is sugar for {eq: value}.
func compileBareColumn(column string, v *ast.Value, vc *valueCtx, path []string) ([]jsonquery.Expr, error) {
	if v != nil && v.Kind == ast.ObjectValue {
		conds := make([]jsonquery.Expr, 0, len(v.Children))
		for _, opChild := range v.Children {
			cond, err := compileOperator(column, opChild.Name, opChild.Value, vc, path)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
		}
		return conds, nil
	}
	cond, err := compileOperator(column, "eq", v, vc, path)
	if err != nil {
		return nil, err
	}
	return []jsonquery.Expr{cond}, nil
}

// compileOperator lowers one {column, operator, value} triple into a SQL
// boolean expression using the operator table above.
func compileOperator(column, op string, valueNode *ast.Value, vc *valueCtx, path []string) (jsonquery.Expr, error) {
	col := jsonquery.Ident{Name: column}

	switch op {
	case "is_null":
		b, ok := literalBool(valueNode)
		if !ok {
			return nil, newErr(InvalidArgumentShape, path, "is_null value must be a boolean")
		}
		return jsonquery.IsNull{Expr: col, Negate: !b}, nil
	case "in", "nin":
		val, err := lowerValue(vc, valueNode, path)
		if err != nil {
			return nil, err
		}
		if valueNode == nil || valueNode.Kind != ast.ListValue {
			val = jsonquery.Tuple{Items: []jsonquery.Expr{val}}
		}
		sqlOp := "IN"
		if op == "nin" {
			sqlOp = "NOT IN"
		}
		return jsonquery.Binary{Left: col, Op: sqlOp, Right: val}, nil
	default:
		sqlOp, ok := operators[op]
		if !ok {
			return nil, newErr(UnknownOperator, path, "unknown filter operator %q", op)
		}
		val, err := lowerValue(vc, valueNode, path)
		if err != nil {
			return nil, err
		}
		return jsonquery.Binary{Left: col, Op: sqlOp, Right: val}, nil
	}
}
