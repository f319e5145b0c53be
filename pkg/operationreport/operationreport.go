// Package operationreport collects the diagnostics produced while synthetic
// identifiers are populated for one operation.
package operationreport

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindStructuralMismatch is response data without a matching field tree entry.
	KindStructuralMismatch
	// KindFragmentResolutionFailure is a fragment spread that could not be inlined.
	KindFragmentResolutionFailure
	// KindUnexpectedException is any other failure while building or annotating.
	KindUnexpectedException
	// KindAmbiguousRootSelection is a root write with more than one top level field.
	KindAmbiguousRootSelection
)

func (k Kind) String() string {
	switch k {
	case KindStructuralMismatch:
		return "StructuralMismatch"
	case KindFragmentResolutionFailure:
		return "FragmentResolutionFailure"
	case KindUnexpectedException:
		return "UnexpectedException"
	case KindAmbiguousRootSelection:
		return "AmbiguousRootSelection"
	default:
		return "Unknown"
	}
}

type Diagnostic struct {
	Kind    Kind
	Message string
	// Path is the identifier, data id or operation name the diagnostic belongs to.
	Path string
	Err  error
}

func (d Diagnostic) Error() string {
	out := fmt.Sprintf("%s: %s", d.Kind, d.Message)
	if d.Path != "" {
		out += fmt.Sprintf(", path: %s", d.Path)
	}
	if d.Err != nil {
		out += fmt.Sprintf(", cause: %s", d.Err.Error())
	}
	return out
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Fatal reports whether the diagnostic forces the original data to be kept.
func (d Diagnostic) Fatal() bool {
	return d.Kind == KindFragmentResolutionFailure || d.Kind == KindUnexpectedException
}

type Report struct {
	Diagnostics []Diagnostic
}

func (r Report) Error() string {
	out := ""
	for i := range r.Diagnostics {
		if i != 0 {
			out += "\n"
		}
		out += r.Diagnostics[i].Error()
	}
	return out
}

func (r *Report) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

func (r *Report) HasFatal() bool {
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Fatal() {
			return true
		}
	}
	return false
}

func (r *Report) AddDiagnostic(diagnostic Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diagnostic)
}

// AddInternalError records err as an unexpected failure at path.
func (r *Report) AddInternalError(path string, err error) {
	r.AddDiagnostic(Diagnostic{
		Kind:    KindUnexpectedException,
		Message: UnwrappedErrorMessage(err),
		Path:    path,
		Err:     err,
	})
}

func UnwrappedErrorMessage(err error) string {
	for result := err; result != nil; result = errors.Unwrap(result) {
		err = result
	}
	return err.Error()
}
