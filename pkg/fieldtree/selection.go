package fieldtree

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

var ErrNoRootSelectionSet = errors.New("document has no operation or fragment definition")

// Selection is the part of a document a tree is built from.
type Selection struct {
	SelectionSet ast.SelectionSet
	// VariableDefinitions is empty for fragments.
	VariableDefinitions ast.VariableDefinitionList
}

// RootSelection picks the definition a tree is built from.
// A named fragment wins, then the named operation, then the first operation
// and finally the first fragment of a fragment-only document.
func RootSelection(document *ast.QueryDocument, operationName, fragmentName string) (Selection, error) {
	if document == nil {
		return Selection{}, ErrNoRootSelectionSet
	}

	if fragmentName != "" {
		fragment := document.Fragments.ForName(fragmentName)
		if fragment == nil {
			return Selection{}, fmt.Errorf("%w: %s", ErrFragmentUndefined, fragmentName)
		}
		return Selection{SelectionSet: fragment.SelectionSet}, nil
	}

	if operationName != "" {
		if operation := document.Operations.ForName(operationName); operation != nil {
			return operationSelection(operation), nil
		}
	}

	if len(document.Operations) > 0 {
		return operationSelection(document.Operations[0]), nil
	}

	if len(document.Fragments) > 0 {
		return Selection{SelectionSet: document.Fragments[0].SelectionSet}, nil
	}

	return Selection{}, ErrNoRootSelectionSet
}

func operationSelection(operation *ast.OperationDefinition) Selection {
	return Selection{
		SelectionSet:        operation.SelectionSet,
		VariableDefinitions: operation.VariableDefinitions,
	}
}
