package dynamicid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// IdentifierField receives the synthetic identifier of objects without a natural one.
	IdentifierField        = "_id"
	NaturalIdentifierField = "id"
	TypenameField          = "__typename"
)

// TypedSegment composes the identifier of a field of an object that carries a
// natural identifier: Typename ":" NaturalId "." SchemaFieldName [ArgsSuffix].
func TypedSegment(typeName, naturalID, schemaFieldName, encodedArguments string) string {
	b := strings.Builder{}
	b.Grow(len(typeName) + len(naturalID) + len(schemaFieldName) + len(encodedArguments) + 4)
	b.WriteString(typeName)
	b.WriteByte(':')
	b.WriteString(naturalID)
	b.WriteByte('.')
	b.WriteString(schemaFieldName)
	writeArguments(&b, encodedArguments)
	return b.String()
}

// PathSegment composes the identifier of a field of an object identified by
// its path: ParentId "." SchemaFieldName [ArgsSuffix].
func PathSegment(parentID, schemaFieldName, encodedArguments string) string {
	b := strings.Builder{}
	b.Grow(len(parentID) + len(schemaFieldName) + len(encodedArguments) + 3)
	b.WriteString(parentID)
	b.WriteByte('.')
	b.WriteString(schemaFieldName)
	writeArguments(&b, encodedArguments)
	return b.String()
}

// ElementSegment composes the identifier of the element at index of a list.
func ElementSegment(parentID string, index int) string {
	return parentID + "." + strconv.Itoa(index)
}

func writeArguments(b *strings.Builder, encodedArguments string) {
	if encodedArguments == "" {
		return
	}
	b.WriteByte('(')
	b.WriteString(encodedArguments)
	b.WriteByte(')')
}

// naturalIdentifier returns the natural identifier of object.
// null, "", false and numeric zero count as absent.
func naturalIdentifier(object map[string]interface{}) (string, bool) {
	switch id := object[NaturalIdentifierField].(type) {
	case nil:
		return "", false
	case string:
		return id, id != ""
	case bool:
		return "true", id
	case json.Number:
		if f, err := id.Float64(); err == nil && f == 0 {
			return "", false
		}
		return id.String(), true
	case float64:
		if id == 0 {
			return "", false
		}
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), id != 0
	case int64:
		return strconv.FormatInt(id, 10), id != 0
	default:
		return fmt.Sprint(id), true
	}
}

func typeName(object map[string]interface{}) string {
	switch typename := object[TypenameField].(type) {
	case nil:
		return ""
	case string:
		return typename
	default:
		return fmt.Sprint(typename)
	}
}
