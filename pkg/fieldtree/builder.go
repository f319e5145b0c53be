package fieldtree

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-cacheid/pkg/operationreport"
)

var (
	ErrFragmentUndefined = errors.New("fragment undefined")
	ErrFragmentCycle     = errors.New("fragment spreads form a cycle")
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

// Builder builds a fresh field tree per operation execution.
// It holds no per-operation state and is safe for concurrent use.
type Builder struct {
	log log.Logger
}

func NewBuilder(options ...Options) *Builder {
	op := &opts{
		log: log.NoopLogger,
	}
	for _, option := range options {
		option(op)
	}
	return &Builder{
		log: op.log,
	}
}

type Request struct {
	// Name identifies the operation in diagnostics: the operation name or the data id.
	Name                string
	Document            *ast.QueryDocument
	SelectionSet        ast.SelectionSet
	VariableDefinitions ast.VariableDefinitionList
	Variables           map[string]interface{}
}

// Build walks the selection set of request. Fragment spreads are inlined into
// the node they appear in. When the walk fails the failure is added to report
// and an empty tree is returned.
func (b *Builder) Build(request Request, report *operationreport.Report) *Node {
	root := NewRoot()
	w := &walker{
		document:  request.Document,
		variables: VariablesWithDefaults(request.VariableDefinitions, request.Variables),
	}

	err := w.walk(request.SelectionSet, root)
	if err == nil {
		return root
	}

	kind := operationreport.KindUnexpectedException
	if errors.Is(err, ErrFragmentUndefined) || errors.Is(err, ErrFragmentCycle) {
		kind = operationreport.KindFragmentResolutionFailure
	}

	b.log.Error("fieldtree.Builder.Build",
		log.String("operation", request.Name),
		log.String("kind", kind.String()),
		log.Error(err),
	)
	report.AddDiagnostic(operationreport.Diagnostic{
		Kind:    kind,
		Message: "error while creating field tree",
		Path:    request.Name,
		Err:     err,
	})

	return NewRoot()
}

type walker struct {
	document  *ast.QueryDocument
	variables map[string]interface{}
	// spreads holds the fragment names currently being inlined.
	spreads []string
}

func (w *walker) walk(selectionSet ast.SelectionSet, parent *Node) error {
	for _, selection := range selectionSet {
		var err error
		switch s := selection.(type) {
		case *ast.Field:
			err = w.enterField(s, parent)
		case *ast.InlineFragment:
			err = w.enterInlineFragment(s, parent)
		case *ast.FragmentSpread:
			err = w.enterFragmentSpread(s, parent)
		default:
			// unknown selection kinds are ignored
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) enterField(field *ast.Field, parent *Node) error {
	responseKey := field.Alias
	if responseKey == "" {
		responseKey = field.Name
	}

	node, ok := parent.child(responseKey, NodeKindField)
	if !ok {
		node = &Node{
			Kind:            NodeKindField,
			FieldName:       responseKey,
			SchemaFieldName: field.Name,
		}
		if responseKey != field.Name {
			node.AliasName = responseKey
		}
		parent.setChild(responseKey, node)
	}

	// a field with arguments keeps its suffix even if no argument has a value
	if len(field.Arguments) > 0 {
		arguments := ResolveArguments(field.Arguments, w.variables)
		encoded, err := arguments.Encode()
		if err != nil {
			return fmt.Errorf("encode arguments of field %s: %w", responseKey, err)
		}
		node.Arguments = arguments
		node.EncodedArguments = encoded
	}

	if len(field.SelectionSet) == 0 {
		return nil
	}
	return w.walk(field.SelectionSet, node)
}

func (w *walker) enterInlineFragment(fragment *ast.InlineFragment, parent *Node) error {
	if fragment.TypeCondition == "" {
		return w.walk(fragment.SelectionSet, parent)
	}

	node, ok := parent.child(fragment.TypeCondition, NodeKindInlineFragmentCase)
	if !ok {
		node = &Node{
			Kind:      NodeKindInlineFragmentCase,
			FieldName: fragment.TypeCondition,
		}
		parent.setChild(fragment.TypeCondition, node)
	}

	return w.walk(fragment.SelectionSet, node)
}

func (w *walker) enterFragmentSpread(spread *ast.FragmentSpread, parent *Node) error {
	var fragment *ast.FragmentDefinition
	if w.document != nil {
		fragment = w.document.Fragments.ForName(spread.Name)
	}
	if fragment == nil {
		return fmt.Errorf("%w: %s", ErrFragmentUndefined, spread.Name)
	}

	for _, name := range w.spreads {
		if name == spread.Name {
			path := append(append([]string{}, w.spreads...), spread.Name)
			return fmt.Errorf("%w: %s", ErrFragmentCycle, strings.Join(path, " -> "))
		}
	}

	w.spreads = append(w.spreads, spread.Name)
	err := w.walk(fragment.SelectionSet, parent)
	w.spreads = w.spreads[:len(w.spreads)-1]

	return err
}
