package translate

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// Result is the translator's output: the rendered SQL text and its
// positional parameter list in $1, $2, ... order. Params is nil, not an
// empty slice, when the document referenced no variables.
type Result struct {
	SQL    string
	Params []interface{}
}

// Translate is the operation driver: it parses a single
// GraphQL document, selects the operation to run, and lowers every top-level
// field into its own independent entry of one
// "SELECT json_build_object(...) AS \"data\"" statement. Top-level fields
// share no FROM clause; each one is its own self-contained subquery. The
// call is pure: every piece of mutable state (paramTable, aliasArena) is
// allocated fresh here and never retained.
func Translate(query string, variables map[string]interface{}, operationName string) (*Result, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return nil, &Error{Kind: ParseError, Message: gqlErr.Message}
	}

	op, err := selectOperation(doc, operationName)
	if err != nil {
		return nil, err
	}
	if len(op.SelectionSet) == 0 {
		return nil, newErr(EmptyDocument, nil, "operation has no top-level selections")
	}

	defaults := make(map[string]*ast.Value, len(op.VariableDefinitions))
	for _, vd := range op.VariableDefinitions {
		if vd.DefaultValue != nil {
			defaults[vd.Variable] = vd.DefaultValue
		}
	}

	vc := &valueCtx{vars: variables, defaults: defaults, pt: newParamTable()}
	lc := &loweringCtx{vc: vc, aa: newAliasArena(), fragments: doc.Fragments}

	args := make([]jsonquery.Expr, 0, len(op.SelectionSet)*2)
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		path := []string{field.Name}

		include, err := shouldInclude(field.Directives, vc.vars, vc.defaults, path)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}

		valueExpr, err := lowerTopLevelField(lc, field, path)
		if err != nil {
			return nil, err
		}
		args = append(args, jsonquery.StringLit{Value: outputKey(field)}, valueExpr)
	}

	top := &jsonquery.Select{
		Columns: []jsonquery.Column{{
			Expr:  jsonquery.FuncCall{Name: "json_build_object", Args: args},
			Alias: "data",
		}},
	}

	return &Result{SQL: jsonquery.Render(top), Params: vc.pt.Values()}, nil
}

// lowerTopLevelField dispatches a single root-level field to whichever
// lowering path matches its shape, mirroring the dispatch selection.go
// performs for nested fields but producing a standalone subquery expression
// rather than a LATERAL join sibling, since top-level fields share no FROM.
func lowerTopLevelField(lc *loweringCtx, field *ast.Field, path []string) (jsonquery.Expr, error) {
	if isAggregateConvention(field.Name) {
		sel, err := lowerAggregateField(lc, field, "", true, path)
		if err != nil {
			return nil, err
		}
		return jsonquery.Subquery{Select: sel}, nil
	}

	rd, err := resolveRelation(field, true, path)
	if err != nil {
		return nil, err
	}
	sel, err := lowerRelationBody(lc, rd, field.Arguments, field.SelectionSet, "", path)
	if err != nil {
		return nil, err
	}
	return jsonquery.Subquery{Select: sel}, nil
}

// selectOperation picks the operation to translate: the named one when
// operationName is non-empty, otherwise the document's sole operation. A
// document with zero operations, or an ambiguous/missing name, is an
// EmptyDocument failure.
func selectOperation(doc *ast.QueryDocument, operationName string) (*ast.OperationDefinition, error) {
	if len(doc.Operations) == 0 {
		return nil, newErr(EmptyDocument, nil, "document contains no operations")
	}
	if operationName == "" {
		if len(doc.Operations) > 1 {
			return nil, newErr(EmptyDocument, nil, "document has multiple operations; operationName is required")
		}
		return doc.Operations[0], nil
	}
	op := doc.Operations.ForName(operationName)
	if op == nil {
		return nil, newErr(EmptyDocument, nil, "no operation named %q", operationName)
	}
	return op, nil
}
