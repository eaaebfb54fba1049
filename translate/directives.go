package translate

import "github.com/vektah/gqlparser/v2/ast"

// relationDirective is the parsed form of @relation(table, field, references,
// single, filter, distinct). present is false when the directive
// was absent altogether, which the relation resolver (relation.go)
// interprets differently depending on nesting depth.
type relationDirective struct {
	present    bool
	Table      string
	Field      []string // child-table columns
	References []string // parent-table columns
	Single     bool
	Filter     *ast.Value
	Distinct   *ast.Value
}

// argsDirective marks a field as a table-valued function source (§3 "@args",
// SPEC_FULL.md §10 (b)): the field's own GraphQL arguments, in
// declaration order, become the function's positional parameters.
type argsDirective struct{ present bool }

// staticDirective is @static(value: ScalarConst) (§3, §4.2 step 2): a field
// carrying it never reads a column.
type staticDirective struct {
	present bool
	Value   *ast.Value
}

func parseRelation(dirs ast.DirectiveList, path []string) (*relationDirective, error) {
	d := dirs.ForName("relation")
	if d == nil {
		return &relationDirective{}, nil
	}
	rd := &relationDirective{present: true}
	if arg := d.Arguments.ForName("table"); arg != nil {
		s, ok := literalString(arg.Value)
		if !ok {
			return nil, newErr(InvalidArgumentShape, path, "@relation(table:) must be a string")
		}
		rd.Table = s
	}
	if arg := d.Arguments.ForName("field"); arg != nil {
		lst, ok := literalStringList(arg.Value)
		if !ok {
			return nil, newErr(InvalidArgumentShape, path, "@relation(field:) must be a list of strings")
		}
		rd.Field = lst
	}
	if arg := d.Arguments.ForName("references"); arg != nil {
		lst, ok := literalStringList(arg.Value)
		if !ok {
			return nil, newErr(InvalidArgumentShape, path, "@relation(references:) must be a list of strings")
		}
		rd.References = lst
	}
	if arg := d.Arguments.ForName("single"); arg != nil {
		b, ok := literalBool(arg.Value)
		if !ok {
			return nil, newErr(InvalidArgumentShape, path, "@relation(single:) must be a boolean")
		}
		rd.Single = b
	}
	if arg := d.Arguments.ForName("filter"); arg != nil {
		rd.Filter = arg.Value
	}
	if arg := d.Arguments.ForName("distinct"); arg != nil {
		rd.Distinct = arg.Value
	}
	if len(rd.Field) != len(rd.References) {
		return nil, newErr(RelationArityMismatch, path, "@relation field/references length mismatch (%d vs %d)", len(rd.Field), len(rd.References))
	}
	return rd, nil
}

func parseArgs(dirs ast.DirectiveList) argsDirective {
	return argsDirective{present: dirs.ForName("args") != nil}
}

func parseStatic(dirs ast.DirectiveList) staticDirective {
	d := dirs.ForName("static")
	if d == nil {
		return staticDirective{}
	}
	sd := staticDirective{present: true}
	if arg := d.Arguments.ForName("value"); arg != nil {
		sd.Value = arg.Value
	}
	return sd
}

// shouldInclude resolves @skip/@include, honoring a variable-valued "if"
// argument exactly as a plain value reference would be resolved, without
// allocating a positional parameter for it: the decision is made once, at
// translate time, not deferred to the database.
func shouldInclude(dirs ast.DirectiveList, vars map[string]interface{}, defaults map[string]*ast.Value, path []string) (bool, error) {
	for _, dir := range dirs {
		switch dir.Name {
		case "skip":
			arg := dir.Arguments.ForName("if")
			if arg == nil {
				continue
			}
			b, err := resolveBoolArg(arg.Value, vars, defaults, path)
			if err != nil {
				return false, err
			}
			if b {
				return false, nil
			}
		case "include":
			arg := dir.Arguments.ForName("if")
			if arg == nil {
				continue
			}
			b, err := resolveBoolArg(arg.Value, vars, defaults, path)
			if err != nil {
				return false, err
			}
			if !b {
				return false, nil
			}
		}
	}
	return true, nil
}

func resolveBoolArg(v *ast.Value, vars map[string]interface{}, defaults map[string]*ast.Value, path []string) (bool, error) {
	if v == nil {
		return false, nil
	}
	if v.Kind == ast.Variable {
		val, ok := vars[v.Raw]
		if !ok {
			def, hasDefault := defaults[v.Raw]
			if !hasDefault {
				return false, newErr(UnresolvedVariable, path, "variable $%s referenced but not supplied or defaulted", v.Raw)
			}
			goVal, err := literalToGo(def)
			if err != nil {
				return false, err
			}
			val = goVal
		}
		b, _ := val.(bool)
		return b, nil
	}
	b, ok := literalBool(v)
	if !ok {
		return false, newErr(InvalidArgumentShape, path, "@skip/@include if: must resolve to a boolean")
	}
	return b, nil
}
