// Package fieldtree turns the selection set of an operation into a tree
// that mirrors the requested fields, with the resolved arguments of every
// field attached.
package fieldtree

import (
	"encoding/json"
	"fmt"

	"github.com/wundergraph/graphql-cacheid/pkg/canonicalvariables"
)

type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindRoot
	NodeKindField
	NodeKindInlineFragmentCase
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindRoot:
		return "Root"
	case NodeKindField:
		return "Field"
	case NodeKindInlineFragmentCase:
		return "InlineFragmentCase"
	default:
		return "Unknown"
	}
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is one requested field, one inline fragment type case,
// or the implicit root of a tree.
type Node struct {
	Kind NodeKind
	// FieldName is the response key: the alias if the field is aliased,
	// the schema name otherwise. For type cases it's the type condition.
	FieldName       string
	SchemaFieldName string
	AliasName       string
	Arguments       canonicalvariables.Map
	// EncodedArguments is the stable encoding of Arguments,
	// empty when the field has no arguments.
	EncodedArguments string
	Children         map[string]*Node
}

func NewRoot() *Node {
	return &Node{
		Kind:     NodeKindRoot,
		Children: map[string]*Node{},
	}
}

func (n *Node) HasArguments() bool {
	return n != nil && n.EncodedArguments != ""
}

// Field returns the field child registered under responseKey.
func (n *Node) Field(responseKey string) *Node {
	if n == nil {
		return nil
	}
	child, ok := n.Children[responseKey]
	if !ok || child.Kind != NodeKindField {
		return nil
	}
	return child
}

// TypeCase returns the inline fragment child for typeName.
func (n *Node) TypeCase(typeName string) *Node {
	if n == nil || typeName == "" {
		return nil
	}
	child, ok := n.Children[typeName]
	if !ok || child.Kind != NodeKindInlineFragmentCase {
		return nil
	}
	return child
}

// Lookup resolves responseKey for an object of type typeName: fields scoped
// to the type case win over fields shared by all types.
func (n *Node) Lookup(typeName, responseKey string) *Node {
	if child := n.TypeCase(typeName).Field(responseKey); child != nil {
		return child
	}
	return n.Field(responseKey)
}

func (n *Node) child(key string, kind NodeKind) (*Node, bool) {
	child, ok := n.Children[key]
	if !ok || child.Kind != kind {
		return nil, false
	}
	return child, true
}

func (n *Node) setChild(key string, child *Node) {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	n.Children[key] = child
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", n.Kind, n.FieldName)
}

type jsonNode struct {
	Kind            NodeKind         `json:"kind"`
	FieldName       string           `json:"fieldName,omitempty"`
	SchemaFieldName string           `json:"schemaFieldName,omitempty"`
	AliasName       string           `json:"aliasName,omitempty"`
	Arguments       json.RawMessage  `json:"arguments,omitempty"`
	Children        map[string]*Node `json:"children,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	out := jsonNode{
		Kind:            n.Kind,
		FieldName:       n.FieldName,
		SchemaFieldName: n.SchemaFieldName,
		AliasName:       n.AliasName,
		Children:        n.Children,
	}
	if n.EncodedArguments != "" {
		out.Arguments = json.RawMessage(n.EncodedArguments)
	}
	return json.Marshal(out)
}
