package responsejson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
)

const viewerQuery = `query Viewer($lang: String) { viewer { name settings(lang: $lang) { theme } } }`

func viewerOperation(t *testing.T) cacheid.Operation {
	t.Helper()

	document, err := parser.ParseQuery(&ast.Source{Input: viewerQuery})
	if err != nil {
		t.Fatal(err)
	}
	return cacheid.Operation{
		Document:      document,
		OperationName: "Viewer",
		Variables:     map[string]interface{}{"lang": "en"},
		DataID:        cacheid.RootQuery,
	}
}

func TestAnnotator_Annotate(t *testing.T) {
	annotator := NewAnnotator(cacheid.New(cacheid.Config{}))

	run := func(body, expected string) func(t *testing.T) {
		return func(t *testing.T) {
			out, report, err := annotator.Annotate([]byte(body), viewerOperation(t))
			require.NoError(t, err)
			assert.False(t, report.HasDiagnostics(), report.Error())
			assert.JSONEq(t, expected, string(out))
		}
	}

	t.Run("envelope", run(
		`{"data":{"viewer":{"__typename":"Viewer","name":"<b>","settings":{"__typename":"Settings","theme":"dark"}}},"extensions":{"cost":1.50}}`,
		`{"data":{"viewer":{"__typename":"Viewer","_id":"ROOT_QUERY_viewer","name":"<b>","settings":{"__typename":"Settings","_id":"ROOT_QUERY_viewer.settings({\"lang\":\"en\"})","theme":"dark"}}},"extensions":{"cost":1.50}}`,
	))
	t.Run("bare data", run(
		`{"viewer":{"__typename":"Viewer","name":"n","settings":null}}`,
		`{"viewer":{"__typename":"Viewer","_id":"ROOT_QUERY_viewer","name":"n","settings":null}}`,
	))
	t.Run("null data", run(
		`{"data":null,"errors":[{"message":"boom"}]}`,
		`{"data":null,"errors":[{"message":"boom"}]}`,
	))

	t.Run("keeps envelope bytes outside of data", func(t *testing.T) {
		body := `{"errors":[],  "data":{"viewer":{"__typename":"Viewer","name":"n"}}}`
		out, _, err := annotator.Annotate([]byte(body), viewerOperation(t))
		require.NoError(t, err)
		assert.Contains(t, string(out), `{"errors":[],  "data":`)
	})
	t.Run("does not escape html", func(t *testing.T) {
		out, _, err := annotator.AnnotateData([]byte(`{"viewer":{"__typename":"Viewer","name":"<b>&"}}`), viewerOperation(t))
		require.NoError(t, err)
		assert.Contains(t, string(out), `"name":"<b>&"`)
	})
	t.Run("keeps number formatting", func(t *testing.T) {
		out, _, err := annotator.AnnotateData([]byte(`{"viewer":{"__typename":"Viewer","name":1.50}}`), viewerOperation(t))
		require.NoError(t, err)
		assert.Contains(t, string(out), `"name":1.50`)
	})
	t.Run("invalid json", func(t *testing.T) {
		_, _, err := annotator.Annotate([]byte(`{"viewer":`), viewerOperation(t))
		assert.True(t, errors.Is(err, ErrInvalidJSON))
	})
}

func TestInjectedPatch(t *testing.T) {
	original := []byte(`{"viewer":{"__typename":"Viewer","name":"n"}}`)
	annotated := []byte(`{"viewer":{"__typename":"Viewer","_id":"ROOT_QUERY_viewer","name":"n"}}`)

	patch, err := InjectedPatch(original, annotated)
	require.NoError(t, err)
	assert.JSONEq(t, `{"viewer":{"_id":"ROOT_QUERY_viewer"}}`, string(patch))
}

func TestReadRequest(t *testing.T) {
	t.Run("full request", func(t *testing.T) {
		request, err := ReadRequest([]byte(`{"query":"{ viewer { name } }","operationName":"Viewer","variables":{"first":10,"filter":{"b":true}}}`))
		require.NoError(t, err)
		assert.Equal(t, "{ viewer { name } }", request.Query)
		assert.Equal(t, "Viewer", request.OperationName)
		assert.Equal(t, "10", request.Variables["first"].(interface{ String() string }).String())
		assert.Equal(t, map[string]interface{}{"b": true}, request.Variables["filter"])
	})
	t.Run("without variables", func(t *testing.T) {
		request, err := ReadRequest([]byte(`{"query":"{ a }","variables":null}`))
		require.NoError(t, err)
		assert.Nil(t, request.Variables)
		assert.Equal(t, "", request.OperationName)
	})
	t.Run("missing query", func(t *testing.T) {
		_, err := ReadRequest([]byte(`{"operationName":"A"}`))
		assert.True(t, errors.Is(err, ErrMissingQuery))
	})
	t.Run("not an object", func(t *testing.T) {
		_, err := ReadRequest([]byte(`[1]`))
		assert.True(t, errors.Is(err, ErrInvalidJSON))
	})
	t.Run("variables not an object", func(t *testing.T) {
		_, err := ReadRequest([]byte(`{"query":"{ a }","variables":[1]}`))
		assert.True(t, errors.Is(err, ErrInvalidJSON))
	})
}

func TestReadWriteRecord(t *testing.T) {
	t.Run("fragment write", func(t *testing.T) {
		record, err := ReadWriteRecord([]byte(`{"query":"fragment B on Book { title }","fragmentName":"B","dataId":"Book:1","result":{"title":"Go","__typename":"Book"}}`))
		require.NoError(t, err)
		assert.Equal(t, "fragment B on Book { title }", record.Query)
		assert.Equal(t, "B", record.FragmentName)
		assert.Equal(t, "Book:1", record.DataID)
		assert.JSONEq(t, `{"title":"Go","__typename":"Book"}`, string(record.Result))
	})
	t.Run("missing query", func(t *testing.T) {
		_, err := ReadWriteRecord([]byte(`{"dataId":"ROOT_QUERY","result":{}}`))
		assert.True(t, errors.Is(err, ErrMissingQuery))
	})
}

func TestDecode(t *testing.T) {
	value, err := Decode([]byte(`{"n":1.50,"s":"<a>"}`))
	require.NoError(t, err)

	out, err := Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `{"n":1.50,"s":"<a>"}`, string(out))

	_, err = Decode([]byte(`{`))
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}
