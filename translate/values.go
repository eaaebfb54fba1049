package translate

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// paramTable is the insertion-ordered variable-name -> positional-index
// table: a hash map plus a parallel value vector, call-local and never
// retained across calls. Keyed by variable name instead of allocating a
// fresh index per value so a variable referenced k times still reuses its
// first index.
type paramTable struct {
	index  map[string]int
	values []interface{}
}

func newParamTable() *paramTable {
	return &paramTable{index: make(map[string]int)}
}

// placeholderFor returns the 1-based positional index for name, assigning it
// on first use and recording value as the parameter's runtime payload.
func (p *paramTable) placeholderFor(name string, value interface{}) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	p.values = append(p.values, value)
	i := len(p.values)
	p.index[name] = i
	return i
}

// Values returns the ordered parameter list matching $1, $2, ... It is nil
// (not empty) when no variable was ever referenced.
func (p *paramTable) Values() []interface{} {
	return p.values
}

// valueCtx bundles the state value lowering needs threaded through the
// whole translation: the caller-supplied variables map, each variable
// definition's optional default (pre-evaluated lazily), and the shared
// parameter table.
type valueCtx struct {
	vars     map[string]interface{}
	defaults map[string]*ast.Value
	pt       *paramTable
}

// lowerValue is the value-lowering component: a variable reference resolves
// through the parameter table (looking up its default when the caller did
// not supply it); anything else becomes a literal SQL expression. Lists
// lower to a parenthesized tuple, the form the "in"/"nin" operator context
// needs; a list reaching lowerValue from any other caller (@static values,
// limit/offset, @args function arguments) renders the same way.
func lowerValue(vc *valueCtx, v *ast.Value, path []string) (jsonquery.Expr, error) {
	if v == nil {
		return jsonquery.NullLit{}, nil
	}
	switch v.Kind {
	case ast.Variable:
		return lowerVariable(vc, v.Raw, path)
	case ast.IntValue, ast.FloatValue:
		return jsonquery.NumberLit{Value: v.Raw}, nil
	case ast.StringValue, ast.BlockValue:
		return jsonquery.StringLit{Value: v.Raw}, nil
	case ast.BooleanValue:
		return jsonquery.BoolLit{Value: v.Raw == "true"}, nil
	case ast.NullValue:
		return jsonquery.NullLit{}, nil
	case ast.EnumValue:
		return jsonquery.BareIdent{Name: v.Raw}, nil
	case ast.ListValue:
		items := make([]jsonquery.Expr, 0, len(v.Children))
		for _, c := range v.Children {
			item, err := lowerValue(vc, c.Value, path)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return jsonquery.Tuple{Items: items}, nil
	default:
		return nil, newErr(InvalidArgumentShape, path, "value of kind %v cannot be lowered to a scalar", v.Kind)
	}
}

func lowerVariable(vc *valueCtx, name string, path []string) (jsonquery.Expr, error) {
	val, ok := vc.vars[name]
	if !ok {
		def, hasDefault := vc.defaults[name]
		if !hasDefault {
			return nil, newErr(UnresolvedVariable, path, "variable $%s referenced but not supplied or defaulted", name)
		}
		goVal, err := literalToGo(def)
		if err != nil {
			return nil, err
		}
		val = goVal
	}
	idx := vc.pt.placeholderFor(name, val)
	return jsonquery.Param{Index: idx}, nil
}

// literalToGo evaluates a constant ast.Value (a variable default) into a
// plain Go value for the parameter list. Variables are not expected to
// appear here: defaults are constants by GraphQL grammar.
func literalToGo(v *ast.Value) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Kind {
	case ast.IntValue, ast.FloatValue, ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw, nil
	case ast.BooleanValue:
		return v.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.ListValue:
		out := make([]interface{}, 0, len(v.Children))
		for _, c := range v.Children {
			item, err := literalToGo(c.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Children))
		for _, c := range v.Children {
			item, err := literalToGo(c.Value)
			if err != nil {
				return nil, err
			}
			out[c.Name] = item
		}
		return out, nil
	default:
		return v.Raw, nil
	}
}

// literalString reads a constant string/enum argument value, the shape
// directive metadata (table names, column lists, booleans) is always given
// in. A variable in one of those metadata positions is not accepted (the
// callers report InvalidArgumentShape); directive arguments that carry data,
// such as @static(value:) or @relation(filter:), may be variables and go
// through lowerValue instead.
func literalString(v *ast.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.Kind {
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw, true
	default:
		return "", false
	}
}

func literalBool(v *ast.Value) (bool, bool) {
	if v == nil || v.Kind != ast.BooleanValue {
		return false, false
	}
	return v.Raw == "true", true
}

func literalStringList(v *ast.Value) ([]string, bool) {
	if v == nil || v.Kind != ast.ListValue {
		return nil, false
	}
	out := make([]string, 0, len(v.Children))
	for _, c := range v.Children {
		s, ok := literalString(c.Value)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
