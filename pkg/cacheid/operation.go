package cacheid

import (
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	RootQuery    = "ROOT_QUERY"
	RootMutation = "ROOT_MUTATION"

	rootQuerySeedPrefix = "ROOT_QUERY_"
)

// Operation is one execution of a query, mutation or fragment: the parsed
// document, the variables bound for this execution and the cache root the
// result is written to.
type Operation struct {
	Document      *ast.QueryDocument
	OperationName string
	// FragmentName selects the fragment of a fragment write, optional.
	FragmentName string
	Variables    map[string]interface{}
	// DataID is RootQuery, RootMutation or the key of a normalized entity.
	DataID string
}

func (o Operation) IsRootWrite() bool {
	return o.DataID == RootQuery || o.DataID == RootMutation
}

func (o Operation) name() string {
	if o.OperationName != "" {
		return o.OperationName
	}
	return o.DataID
}
