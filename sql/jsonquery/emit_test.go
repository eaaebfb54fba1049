package jsonquery_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lateralquery/gqlpg/sql/jsonquery"
)

// TestRender_Golden pins the exact byte-stable text a small, hand-built
// Select tree renders to, guarding the emitter's whitespace/quoting rules
// against accidental drift.
func TestRender_Golden(t *testing.T) {
	sel := &jsonquery.Select{
		Columns: []jsonquery.Column{
			{Expr: jsonquery.Qualified{Qualifier: "base", Name: "id"}, Alias: "id"},
			{Expr: jsonquery.Qualified{Qualifier: "base", Name: "name"}, Alias: "name"},
		},
		From: jsonquery.FromItem{
			Sub: &jsonquery.Select{
				From: jsonquery.FromItem{Table: "App"},
				Where: []jsonquery.Expr{
					jsonquery.Binary{Left: jsonquery.Ident{Name: "id"}, Op: "=", Right: jsonquery.Param{Index: 1}},
				},
			},
			Alias: "base",
		},
	}

	got := jsonquery.Render(sel)

	g := goldie.New(t)
	g.Assert(t, "simple_select", []byte(got))
}

func TestRender_LateralJoinAndDistinctOn(t *testing.T) {
	inner := &jsonquery.Select{
		DistinctOn: []jsonquery.Expr{jsonquery.Ident{Name: "id"}},
		From:       jsonquery.FromItem{Table: "Component"},
		Where: []jsonquery.Expr{
			jsonquery.Or{Exprs: []jsonquery.Expr{
				jsonquery.Binary{Left: jsonquery.Ident{Name: "branch"}, Op: "=", Right: jsonquery.Param{Index: 3}},
				jsonquery.Binary{Left: jsonquery.Ident{Name: "branch"}, Op: "=", Right: jsonquery.StringLit{Value: "main"}},
			}},
		},
		OrderBy: []jsonquery.OrderItem{
			{Expr: jsonquery.Ident{Name: "id"}},
			{Expr: jsonquery.Binary{Left: jsonquery.Ident{Name: "branch"}, Op: "=", Right: jsonquery.Param{Index: 3}}, Desc: true},
		},
	}

	sel := &jsonquery.Select{
		From: jsonquery.FromItem{Sub: inner, Alias: "base"},
		Joins: []jsonquery.LateralJoin{
			{Alias: "root.Element", Sub: &jsonquery.Select{From: jsonquery.FromItem{Table: "Element"}}},
		},
	}

	got := jsonquery.Render(sel)

	assert.Contains(t, got, `SELECT DISTINCT ON ("id") * FROM "Component" WHERE ("branch" = $3 OR "branch" = 'main') ORDER BY "id" ASC, "branch" = $3 DESC`)
	assert.Contains(t, got, `LEFT JOIN LATERAL (SELECT * FROM "Element") AS "root.Element" ON ('true')`)
}
