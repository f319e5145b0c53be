package fieldtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/wundergraph/graphql-cacheid/pkg/canonicalvariables"
)

func parseDocument(t *testing.T, query string) *ast.QueryDocument {
	t.Helper()

	document, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		t.Fatal(err)
	}
	return document
}

func firstFieldArguments(t *testing.T, query string) ast.ArgumentList {
	t.Helper()

	document := parseDocument(t, query)
	require.NotEmpty(t, document.Operations)
	field, ok := document.Operations[0].SelectionSet[0].(*ast.Field)
	require.True(t, ok)
	return field.Arguments
}

func TestResolveArguments(t *testing.T) {
	run := func(query string, variables map[string]interface{}, expectedEncoding string) func(t *testing.T) {
		return func(t *testing.T) {
			arguments := ResolveArguments(firstFieldArguments(t, query), variables)
			encoded, err := arguments.Encode()
			require.NoError(t, err)
			assert.Equal(t, expectedEncoding, encoded)
		}
	}

	t.Run("no arguments", run(
		`{ books { id } }`,
		nil,
		`{}`,
	))
	t.Run("scalar variable", run(
		`query Q($organizationId: ID!) { organization(id: $organizationId) { name } }`,
		map[string]interface{}{"organizationId": "42"},
		`{"id":"42"}`,
	))
	t.Run("object variable is sorted", run(
		`query Q($input: BookInput) { books(input: $input) { id } }`,
		map[string]interface{}{"input": map[string]interface{}{"title": "Go", "author": "Pike"}},
		`{"input":{"author":"Pike","title":"Go"}}`,
	))
	t.Run("list variable keeps its order", run(
		`query Q($ids: [ID!]) { books(ids: $ids) { id } }`,
		map[string]interface{}{"ids": []interface{}{"2", "1"}},
		`{"ids":["2","1"]}`,
	))
	t.Run("variable without value is left out", run(
		`query Q($after: String) { books(after: $after, first: 10) { id } }`,
		map[string]interface{}{},
		`{"first":10}`,
	))
	t.Run("variable supplied as null is kept", run(
		`query Q($after: String) { books(after: $after, first: 10) { id } }`,
		map[string]interface{}{"after": nil},
		`{"after":null,"first":10}`,
	))
	t.Run("variable without value inside an object literal is left out", run(
		`query Q($title: String, $author: String) { books(input: {title: $title, author: $author}) { id } }`,
		map[string]interface{}{"title": "Go"},
		`{"input":{"title":"Go"}}`,
	))
	t.Run("variable without value inside a list literal is null", run(
		`query Q($b: ID) { books(ids: ["a", $b]) { id } }`,
		nil,
		`{"ids":["a",null]}`,
	))
	t.Run("inline object literal with variables", run(
		`query Q($title: String, $author: String) { books(input: {title: $title, author: $author}) { id } }`,
		map[string]interface{}{"title": "Go", "author": "Pike"},
		`{"input":{"author":"Pike","title":"Go"}}`,
	))
	t.Run("nested object literals", run(
		`query Q($last: String) { books(where: {author: {last: $last, first: "Rob"}, year: 2009}) { id } }`,
		map[string]interface{}{"last": "Pike"},
		`{"where":{"author":{"first":"Rob","last":"Pike"},"year":2009}}`,
	))
	t.Run("literal scalars", run(
		`{ books(first: 10, ratio: 1.5, title: "Go", sort: ASC, available: true, cursor: null) { id } }`,
		nil,
		`{"available":true,"cursor":null,"first":10,"ratio":1.5,"sort":"ASC","title":"Go"}`,
	))
	t.Run("list literal with variables", run(
		`query Q($b: ID) { books(ids: ["a", $b]) { id } }`,
		map[string]interface{}{"b": "b"},
		`{"ids":["a","b"]}`,
	))
}

func TestResolveArguments_ValueEqualFormsEncodeEqually(t *testing.T) {
	asObjectVariable := ResolveArguments(
		firstFieldArguments(t, `query Q($input: BookInput) { books(input: $input) { id } }`),
		map[string]interface{}{"input": map[string]interface{}{"title": "Go", "author": "Pike"}},
	)
	asScalarVariables := ResolveArguments(
		firstFieldArguments(t, `query Q($t: String, $a: String) { books(input: {title: $t, author: $a}) { id } }`),
		map[string]interface{}{"t": "Go", "a": "Pike"},
	)
	asLiterals := ResolveArguments(
		firstFieldArguments(t, `{ books(input: {author: "Pike", title: "Go"}) { id } }`),
		nil,
	)

	first, err := asObjectVariable.Encode()
	require.NoError(t, err)
	second, err := asScalarVariables.Encode()
	require.NoError(t, err)
	third, err := asLiterals.Encode()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestVariablesWithDefaults(t *testing.T) {
	definitions := func(t *testing.T, query string) ast.VariableDefinitionList {
		t.Helper()

		document := parseDocument(t, query)
		require.NotEmpty(t, document.Operations)
		return document.Operations[0].VariableDefinitions
	}

	query := `query Q($first: Int = 10, $where: Filter = {status: OPEN, tags: ["b", "a"]}, $after: String) { books(first: $first) { id } }`

	t.Run("defaults fill variables without value", func(t *testing.T) {
		variables := VariablesWithDefaults(definitions(t, query), nil)

		encoded, err := canonicalvariables.Canonicalize(variables).Encode()
		require.NoError(t, err)
		assert.Equal(t, `{"first":10,"where":{"status":"OPEN","tags":["b","a"]}}`, encoded)
	})
	t.Run("supplied values win", func(t *testing.T) {
		supplied := map[string]interface{}{"first": 5, "where": nil}
		variables := VariablesWithDefaults(definitions(t, query), supplied)

		assert.Equal(t, 5, variables["first"])
		assert.Nil(t, variables["where"])
		assert.Contains(t, variables, "where")
		assert.NotContains(t, variables, "after")
	})
	t.Run("does not modify the supplied variables", func(t *testing.T) {
		supplied := map[string]interface{}{"after": "x"}
		_ = VariablesWithDefaults(definitions(t, query), supplied)

		assert.Equal(t, map[string]interface{}{"after": "x"}, supplied)
	})
	t.Run("default equals the explicit value", func(t *testing.T) {
		arguments := firstFieldArguments(t, query)
		defaults := definitions(t, query)

		withDefault, err := ResolveArguments(arguments, VariablesWithDefaults(defaults, nil)).Encode()
		require.NoError(t, err)
		explicit, err := ResolveArguments(arguments, map[string]interface{}{"first": 10}).Encode()
		require.NoError(t, err)

		assert.Equal(t, `{"first":10}`, withDefault)
		assert.Equal(t, explicit, withDefault)
	})
}
