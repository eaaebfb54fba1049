package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lateralquery/gqlpg/translate"
)

func TestTranslate_SimpleListWithAggregate(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: ["id"], references: ["id"]) {
			id
			name
			components @relation(table: "Component", field: ["appId"], references: ["id"]) {
				id
				elements @relation(table: "Element", field: ["componentId"], references: ["id"]) {
					id
				}
			}
			pageMeta @relation(table: "PageMeta", field: ["appId"], references: ["id"], single: true) {
				id
			}
			component_aggregate @relation(table: "Component", field: ["appId"], references: ["id"]) {
				count
				min {
					createdAt
				}
			}
		}
	}`

	result, err := translate.Translate(query, nil, "")
	require.NoError(t, err)
	assert.Nil(t, result.Params)

	assert.Contains(t, result.SQL, `json_build_object('app'`)
	assert.Contains(t, result.SQL, `coalesce(json_agg(to_json("root")), '[]')`)
	assert.Contains(t, result.SQL, `LEFT JOIN LATERAL (`)
	assert.Contains(t, result.SQL, ` LIMIT 1`)
	assert.Contains(t, result.SQL, `json_build_object('count', COUNT(*), 'min', json_build_object('createdAt', MIN("createdAt")))`)
}

func TestTranslate_VariableDeduplication(t *testing.T) {
	query := `
	query ($id: ID!, $branch: String!) {
		app @relation(table: "App", field: ["id"], references: ["id"]) {
			id @static(value: $id)
			components @relation(table: "Component", field: ["appId"], references: ["id"], filter: {branch: {eq: $branch}}) {
				id
				again: id @static(value: $branch)
			}
		}
	}`

	result, err := translate.Translate(query, map[string]interface{}{
		"id":     "123",
		"branch": "master",
	}, "")
	require.NoError(t, err)

	assert.Contains(t, result.SQL, "$1")
	assert.Contains(t, result.SQL, "$2")
	assert.NotContains(t, result.SQL, "$3")
	assert.Equal(t, []interface{}{"123", "master"}, result.Params)
}

func TestTranslate_PolymorphicFragmentFusion(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: ["id"], references: ["id"]) {
			meta @relation(table: "Meta", field: ["appId"], references: ["id"]) {
				... on PageMeta @relation(table: "PageMeta", field: ["metaId"], references: ["id"]) {
					title
				}
				... on ComponentMeta @relation(table: "ComponentMeta", field: ["metaId"], references: ["id"]) {
					kind
				}
			}
		}
	}`

	result, err := translate.Translate(query, nil, "")
	require.NoError(t, err)

	assert.Contains(t, result.SQL, `"root.PageMeta"`)
	assert.Contains(t, result.SQL, `"root.ComponentMeta"`)
	assert.Contains(t, result.SQL, `CAST(to_json("root") AS jsonb) || CASE WHEN "root.PageMeta"."PageMeta" IS NOT NULL THEN to_jsonb("PageMeta") WHEN "root.ComponentMeta"."ComponentMeta" IS NOT NULL THEN to_jsonb("ComponentMeta") ELSE jsonb_build_object() END`)
}

func TestTranslate_DistinctOnWithBranchPreference(t *testing.T) {
	query := `
	query ($branch: String!) {
		components @relation(table: "Component", field: [], references: [], distinct: {on: ["id"], order: [{expr: {field: "branch", operator: "eq", value: $branch}, dir: "DESC"}]}, filter: {or: [{branch: {eq: $branch}}, {branch: {eq: "main"}}]}) {
			id
			branch
		}
	}`

	result, err := translate.Translate(query, map[string]interface{}{"branch": "123"}, "")
	require.NoError(t, err)

	assert.Contains(t, result.SQL, `DISTINCT ON ("id")`)
	assert.Contains(t, result.SQL, `ORDER BY "id" ASC, "branch" = $`)
	assert.Contains(t, result.SQL, `("branch" = $1 OR "branch" = 'main')`)
}

func TestTranslate_StaticFieldInjection(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: [], references: []) {
			kind @static(value: "page")
		}
	}`

	result, err := translate.Translate(query, nil, "")
	require.NoError(t, err)
	assert.Contains(t, result.SQL, `'page' AS "kind"`)
}

func TestTranslate_EmptyDocument(t *testing.T) {
	// A document with no operations at all (only a fragment definition).
	_, err := translate.Translate(`fragment F on Query { id }`, nil, "")
	require.Error(t, err)
	tErr, ok := err.(*translate.Error)
	require.True(t, ok)
	assert.Equal(t, translate.EmptyDocument, tErr.Kind)
}

func TestTranslate_UnresolvedVariable(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: [], references: []) {
			id @static(value: $missing)
		}
	}`
	_, err := translate.Translate(query, nil, "")
	require.Error(t, err)
	tErr, ok := err.(*translate.Error)
	require.True(t, ok)
	assert.Equal(t, translate.UnresolvedVariable, tErr.Kind)
}

func TestTranslate_MissingRelationOnNestedField(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: [], references: []) {
			components {
				id
			}
		}
	}`
	_, err := translate.Translate(query, nil, "")
	require.Error(t, err)
	tErr, ok := err.(*translate.Error)
	require.True(t, ok)
	assert.Equal(t, translate.MissingRelation, tErr.Kind)
}

func TestTranslate_Idempotent(t *testing.T) {
	query := `
	query {
		app @relation(table: "App", field: [], references: []) {
			id
			components @relation(table: "Component", field: ["appId"], references: ["id"]) {
				id
			}
		}
	}`

	first, err := translate.Translate(query, nil, "")
	require.NoError(t, err)
	second, err := translate.Translate(query, nil, "")
	require.NoError(t, err)

	assert.Equal(t, first.SQL, second.SQL)
}
