// Package canonicalvariables sorts argument and variable mappings so that
// value-equal mappings always encode to the same bytes, no matter in which
// order the keys were written in the operation or in the variables.
package canonicalvariables

import (
	"bytes"
	"encoding/json"
	"sort"
)

type entry struct {
	Key   string
	Value interface{}
}

// Map is a mapping with its keys in ascending order at every nesting level.
// Nested mappings are Map values, lists keep their original order.
type Map struct {
	entries []entry
}

// Canonicalize returns the canonical form of variables.
// A nil or empty input yields an empty Map.
func Canonicalize(variables map[string]interface{}) Map {
	keys := make([]string, 0, len(variables))
	for key := range variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry{
			Key:   key,
			Value: canonicalizeValue(variables[key]),
		})
	}

	return Map{entries: entries}
}

// Value canonicalizes a single variable value.
// Mappings become a Map, list elements are canonicalized in place order,
// scalars are returned as they are.
func Value(value interface{}) interface{} {
	return canonicalizeValue(value)
}

func canonicalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return Canonicalize(v)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i := range v {
			items[i] = canonicalizeValue(v[i])
		}
		return items
	default:
		return value
	}
}

// Encode returns the compact JSON encoding of m. Keys are written in
// canonical order and HTML characters are not escaped.
func (m Map) Encode() (string, error) {
	buf := &bytes.Buffer{}
	if err := m.encode(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m Map) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := m.encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m Map) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i != 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, e.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, e.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeValue(buf *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case Map:
		return v.encode(buf)
	case []interface{}:
		buf.WriteByte('[')
		for i := range v {
			if i != 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, v[i]); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	// Encode terminates each value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
