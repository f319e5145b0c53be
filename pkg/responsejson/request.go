package responsejson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrMissingQuery = errors.New("request has no query")

// Request is a GraphQL request body as sent over HTTP.
type Request struct {
	Query         string
	OperationName string
	Variables     map[string]interface{}
}

func ReadRequest(body []byte) (Request, error) {
	if !gjson.ValidBytes(body) {
		return Request{}, fmt.Errorf("responsejson.ReadRequest: %w", ErrInvalidJSON)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Request{}, fmt.Errorf("responsejson.ReadRequest: %w: request is not an object", ErrInvalidJSON)
	}

	query := root.Get("query")
	if query.Type != gjson.String || query.String() == "" {
		return Request{}, fmt.Errorf("responsejson.ReadRequest: %w", ErrMissingQuery)
	}

	request := Request{
		Query:         query.String(),
		OperationName: root.Get("operationName").String(),
	}

	variables, err := ReadVariables([]byte(root.Get("variables").Raw))
	if err != nil {
		return Request{}, fmt.Errorf("responsejson.ReadRequest: %w", err)
	}
	request.Variables = variables
	return request, nil
}

// ReadVariables decodes a JSON object of variables. Empty input and null
// yield nil.
func ReadVariables(raw []byte) (map[string]interface{}, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || gjson.ParseBytes(raw).Type == gjson.Null {
		return nil, nil
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, fmt.Errorf("%w: variables must be an object", ErrInvalidJSON)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var variables map[string]interface{}
	if err := decoder.Decode(&variables); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return variables, nil
}

// WriteRecord is one recorded cache write: the request of the operation, the
// cache key written to and the raw result.
type WriteRecord struct {
	Request
	FragmentName string
	DataID       string
	Result       []byte
}

// ReadWriteRecord reads a write record object:
//
//	{"query": "...", "operationName": "...", "variables": {}, "fragmentName": "...", "dataId": "...", "result": {}}
func ReadWriteRecord(body []byte) (WriteRecord, error) {
	request, err := ReadRequest(body)
	if err != nil {
		return WriteRecord{}, fmt.Errorf("responsejson.ReadWriteRecord: %w", err)
	}

	root := gjson.ParseBytes(body)
	return WriteRecord{
		Request:      request,
		FragmentName: root.Get("fragmentName").String(),
		DataID:       root.Get("dataId").String(),
		Result:       []byte(root.Get("result").Raw),
	}, nil
}
