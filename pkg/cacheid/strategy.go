// Package cacheid populates synthetic identifiers into the result of an
// operation before it's written to a normalized cache.
//
// For root writes (RootQuery, RootMutation) the identifiers are seeded with
// the root field: "ROOT_QUERY_<field>", or the type name when the field
// returns a configured root entity type. Fragment writes are seeded with the
// data id of the entity being written.
//
// Populating identifiers never fails the write: on any fatal diagnostic the
// original data is returned.
package cacheid

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"

	log "github.com/jensneuse/abstractlogger"

	"github.com/wundergraph/graphql-cacheid/pkg/dynamicid"
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

// Strategy holds no per operation state and is safe for concurrent use.
type Strategy struct {
	rootEntityTypes map[string]struct{}
	log             log.Logger
	builder         *fieldtree.Builder
	annotator       *dynamicid.Annotator
}

func New(config Config, options ...Options) *Strategy {
	op := &opts{
		log: log.NoopLogger,
	}
	for _, option := range options {
		option(op)
	}

	rootEntityTypes := make(map[string]struct{}, len(config.RootEntityTypes))
	for _, typeName := range config.RootEntityTypes {
		rootEntityTypes[typeName] = struct{}{}
	}

	return &Strategy{
		rootEntityTypes: rootEntityTypes,
		log:             op.log,
		builder:         fieldtree.NewBuilder(fieldtree.WithLogger(op.log)),
		annotator:       dynamicid.NewAnnotator(dynamicid.WithLogger(op.log)),
	}
}

// PopulateIdentifiers returns a copy of data with synthetic identifiers
// injected, together with the diagnostics of the run. If the report holds a
// fatal diagnostic the returned data is data itself.
func (s *Strategy) PopulateIdentifiers(data interface{}, operation Operation) (out interface{}, report operationreport.Report) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while populating dynamic id: %v", r)
			s.log.Error("cacheid.Strategy.PopulateIdentifiers",
				log.String("operation", operation.name()),
				log.String("stack", string(debug.Stack())),
				log.Error(err),
			)
			report.AddInternalError(operation.name(), err)
			out = data
		}
	}()

	if operation.IsRootWrite() {
		out = s.populateRoot(data, operation, &report)
	} else {
		out = s.populateFragment(data, operation, &report)
	}

	if report.HasFatal() {
		out = data
	}
	return out, report
}

func (s *Strategy) populateRoot(data interface{}, operation Operation, report *operationreport.Report) interface{} {
	if data == nil {
		return data
	}

	root, ok := data.(map[string]interface{})
	if !ok {
		s.fail(operation, report, operationreport.KindUnexpectedException, fmt.Errorf("root data must be an object, got %T", data))
		return data
	}

	rootFields := make([]string, 0, len(root))
	for key := range root {
		if key == dynamicid.TypenameField {
			continue
		}
		rootFields = append(rootFields, key)
	}
	if len(rootFields) == 0 {
		return data
	}
	sort.Strings(rootFields)

	if len(rootFields) > 1 {
		s.log.Warn("cacheid.Strategy.populateRoot",
			log.String("operation", operation.name()),
			log.Any("rootFields", rootFields),
		)
		report.AddDiagnostic(operationreport.Diagnostic{
			Kind:    operationreport.KindAmbiguousRootSelection,
			Message: "root data has more than one top level field, each field is seeded on its own",
			Path:    operation.name(),
		})
	}

	tree, ok := s.buildTree(operation, report)
	if !ok {
		return data
	}

	out := make(map[string]interface{}, len(root))
	for key, value := range root {
		out[key] = value
	}
	for _, rootField := range rootFields {
		value := root[rootField]
		out[rootField] = s.annotator.Annotate(value, s.rootSeed(rootField, value), tree.Field(rootField), report)
	}

	return out
}

func (s *Strategy) populateFragment(data interface{}, operation Operation, report *operationreport.Report) interface{} {
	tree, ok := s.buildTree(operation, report)
	if !ok {
		return data
	}
	return s.annotator.Annotate(data, operation.DataID, tree, report)
}

// FieldTree returns the field tree identifiers of operation are composed
// from. A tree that can't be built is returned as an empty root.
func (s *Strategy) FieldTree(operation Operation) (*fieldtree.Node, operationreport.Report) {
	var report operationreport.Report
	tree, ok := s.buildTree(operation, &report)
	if !ok {
		return fieldtree.NewRoot(), report
	}
	return tree, report
}

func (s *Strategy) buildTree(operation Operation, report *operationreport.Report) (*fieldtree.Node, bool) {
	selection, err := fieldtree.RootSelection(operation.Document, operation.OperationName, operation.FragmentName)
	if err != nil {
		kind := operationreport.KindUnexpectedException
		if errors.Is(err, fieldtree.ErrFragmentUndefined) {
			kind = operationreport.KindFragmentResolutionFailure
		}
		s.fail(operation, report, kind, err)
		return nil, false
	}

	tree := s.builder.Build(fieldtree.Request{
		Name:                operation.name(),
		Document:            operation.Document,
		SelectionSet:        selection.SelectionSet,
		VariableDefinitions: selection.VariableDefinitions,
		Variables:           operation.Variables,
	}, report)

	return tree, !report.HasFatal()
}

// rootSeed is the identifier the value of a root field starts from.
func (s *Strategy) rootSeed(rootField string, value interface{}) string {
	if object, ok := value.(map[string]interface{}); ok {
		if typeName, ok := object[dynamicid.TypenameField].(string); ok {
			if _, isRootEntity := s.rootEntityTypes[typeName]; isRootEntity {
				return typeName
			}
		}
	}
	return rootQuerySeedPrefix + rootField
}

func (s *Strategy) fail(operation Operation, report *operationreport.Report, kind operationreport.Kind, err error) {
	s.log.Error("cacheid.Strategy.PopulateIdentifiers",
		log.String("operation", operation.name()),
		log.String("kind", kind.String()),
		log.Error(err),
	)
	report.AddDiagnostic(operationreport.Diagnostic{
		Kind:    kind,
		Message: "error while populating dynamic id",
		Path:    operation.name(),
		Err:     err,
	})
}
