// Package dynamicid injects path derived identifiers into response objects
// that have no natural identifier, so a normalized cache can merge them.
//
// The identifier of an object is composed by its parent: the parent's own
// identifier (or "Typename:id" when the parent has a natural id), the schema
// name of the field, the list index and the canonical field arguments.
package dynamicid

import (
	"sort"

	log "github.com/jensneuse/abstractlogger"

	"github.com/wundergraph/graphql-cacheid/pkg/fieldtree"
	"github.com/wundergraph/graphql-cacheid/pkg/operationreport"
)

type Options func(options *opts)

type opts struct {
	log log.Logger
}

func WithLogger(logger log.Logger) Options {
	return func(options *opts) {
		options.log = logger
	}
}

// Annotator is stateless and safe for concurrent use.
type Annotator struct {
	log log.Logger
}

func NewAnnotator(options ...Options) *Annotator {
	op := &opts{
		log: log.NoopLogger,
	}
	for _, option := range options {
		option(op)
	}
	return &Annotator{
		log: op.log,
	}
}

// Annotate returns a copy of data in which every object without a natural
// identifier carries IdentifierField. parentID is the identifier composed for
// data by its parent, node the field tree entry describing data.
// data itself is never modified.
func (a *Annotator) Annotate(data interface{}, parentID string, node *fieldtree.Node, report *operationreport.Report) interface{} {
	if passThrough(data) {
		return data
	}

	if node == nil {
		a.log.Warn("dynamicid.Annotator.Annotate",
			log.String("message", "fields for data are not present in fragment/query definition, please verify fragment/query definition and data"),
			log.String("parentId", parentID),
			log.Any("data", data),
		)
		report.AddDiagnostic(operationreport.Diagnostic{
			Kind:    operationreport.KindStructuralMismatch,
			Message: "fields for data are not present in fragment/query definition",
			Path:    parentID,
		})
		return data
	}

	switch value := data.(type) {
	case []interface{}:
		return a.annotateList(value, parentID, node, report)
	case map[string]interface{}:
		return a.annotateObject(value, parentID, node, report)
	default:
		return data
	}
}

func (a *Annotator) annotateList(list []interface{}, parentID string, node *fieldtree.Node, report *operationreport.Report) []interface{} {
	out := make([]interface{}, len(list))
	for i := range list {
		out[i] = a.Annotate(list[i], ElementSegment(parentID, i), node, report)
	}
	return out
}

func (a *Annotator) annotateObject(object map[string]interface{}, parentID string, node *fieldtree.Node, report *operationreport.Report) map[string]interface{} {
	naturalID, hasNaturalID := naturalIdentifier(object)
	typename := typeName(object)

	out := make(map[string]interface{}, len(object)+1)
	if !hasNaturalID {
		out[IdentifierField] = parentID
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		if key == IdentifierField && !hasNaturalID {
			continue
		}
		keys = append(keys, key)
	}
	// sorted so diagnostics come out in the same order on every run
	sort.Strings(keys)

	for _, key := range keys {
		child := node.Lookup(typename, key)

		schemaFieldName, encodedArguments := key, ""
		if child != nil {
			schemaFieldName, encodedArguments = child.SchemaFieldName, child.EncodedArguments
		}

		var childID string
		if hasNaturalID {
			childID = TypedSegment(typename, naturalID, schemaFieldName, encodedArguments)
		} else {
			childID = PathSegment(parentID, schemaFieldName, encodedArguments)
		}

		out[key] = a.Annotate(object[key], childID, child, report)
	}

	return out
}

// passThrough reports whether data is returned as is: scalars and objects
// without a type discriminator. Lists are always walked.
func passThrough(data interface{}) bool {
	switch value := data.(type) {
	case []interface{}:
		return false
	case map[string]interface{}:
		return typeName(value) == ""
	default:
		return true
	}
}
