package cacheid

import (
	"context"

	log "github.com/jensneuse/abstractlogger"

	"github.com/wundergraph/graphql-cacheid/pkg/querydocument"
)

type WriteRequest struct {
	Operation Operation
	// Query is parsed through the document cache of the Writer when
	// Operation.Document is nil.
	Query  string
	Result interface{}
}

// CacheWriter is the write path of a normalized cache.
type CacheWriter interface {
	Write(ctx context.Context, request WriteRequest) error
}

// Writer populates identifiers into every result before handing it to the
// wrapped cache writer. With populateIdentifiers disabled it forwards
// requests untouched.
//
// Writes of the same operation share one parsed document: Writer is meant to
// live as long as the cache it wraps.
type Writer struct {
	next                CacheWriter
	strategy            *Strategy
	documents           *querydocument.Cache
	populateIdentifiers bool
	log                 log.Logger
}

func NewWriter(next CacheWriter, strategy *Strategy, documents *querydocument.Cache, populateIdentifiers bool, options ...Options) *Writer {
	op := &opts{
		log: log.NoopLogger,
	}
	for _, option := range options {
		option(op)
	}
	return &Writer{
		next:                next,
		strategy:            strategy,
		documents:           documents,
		populateIdentifiers: populateIdentifiers,
		log:                 op.log,
	}
}

func (w *Writer) Write(ctx context.Context, request WriteRequest) error {
	if !w.populateIdentifiers {
		return w.next.Write(ctx, request)
	}

	if request.Operation.Document == nil {
		document, err := w.documents.Parse(request.Query)
		if err != nil {
			w.log.Error("cacheid.Writer.Write",
				log.String("operation", request.Operation.name()),
				log.Error(err),
			)
			return err
		}
		request.Operation.Document = document
	}

	result, report := w.strategy.PopulateIdentifiers(request.Result, request.Operation)
	if report.HasDiagnostics() {
		w.log.Debug("cacheid.Writer.Write",
			log.String("operation", request.Operation.name()),
			log.String("diagnostics", report.Error()),
		)
	}

	request.Result = result
	return w.next.Write(ctx, request)
}

// DocumentStats returns the hit and miss counts of the document cache.
func (w *Writer) DocumentStats() querydocument.Stats {
	return w.documents.Stats()
}
