// Package responsejson applies identifier population to raw JSON: GraphQL
// response envelopes, bare data objects and GraphQL request bodies.
package responsejson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tidwall/sjson"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
	"github.com/wundergraph/graphql-cacheid/pkg/operationreport"
)

const dataField = "data"

var ErrInvalidJSON = errors.New("invalid json")

type Annotator struct {
	strategy *cacheid.Strategy
}

func NewAnnotator(strategy *cacheid.Strategy) *Annotator {
	return &Annotator{
		strategy: strategy,
	}
}

// Annotate accepts either a response envelope with a top level "data" member
// or the data object itself. For envelopes only "data" is rewritten, all
// other members keep their original bytes. A null or scalar "data" member
// leaves the body unchanged.
func (a *Annotator) Annotate(body []byte, operation cacheid.Operation) ([]byte, operationreport.Report, error) {
	data, dataType, _, err := jsonparser.Get(body, dataField)
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
		return a.AnnotateData(body, operation)
	case err != nil:
		return nil, operationreport.Report{}, fmt.Errorf("responsejson.Annotate: %w: %v", ErrInvalidJSON, err)
	case dataType != jsonparser.Object && dataType != jsonparser.Array:
		return body, operationreport.Report{}, nil
	}

	annotated, report, err := a.AnnotateData(data, operation)
	if err != nil {
		return nil, report, err
	}

	out, err := sjson.SetRawBytes(body, dataField, annotated)
	if err != nil {
		return nil, report, fmt.Errorf("responsejson.Annotate: %w", err)
	}
	return out, report, nil
}

// AnnotateData populates identifiers into a JSON encoded data object.
// Numbers keep their original textual form.
func (a *Annotator) AnnotateData(data []byte, operation cacheid.Operation) ([]byte, operationreport.Report, error) {
	value, err := Decode(data)
	if err != nil {
		return nil, operationreport.Report{}, fmt.Errorf("responsejson.AnnotateData: %w", err)
	}

	annotated, report := a.strategy.PopulateIdentifiers(value, operation)

	out, err := Encode(annotated)
	if err != nil {
		return nil, report, fmt.Errorf("responsejson.AnnotateData: %w", err)
	}
	return out, report, nil
}

// InjectedPatch returns the RFC 7386 merge patch turning original into
// annotated, which lists the injected identifiers only.
func InjectedPatch(original, annotated []byte) ([]byte, error) {
	patch, err := jsonpatch.CreateMergePatch(original, annotated)
	if err != nil {
		return nil, fmt.Errorf("responsejson.InjectedPatch: %w", err)
	}
	return patch, nil
}

// Decode decodes a JSON value keeping numbers as json.Number.
func Decode(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return value, nil
}

// Encode is the compact encoding of value without HTML escaping.
func Encode(value interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
