package sources

import (
	"errors"
	"fmt"

	"sanctionscan/internal/screening/models"
	"sanctionscan/pkg/platform/sentinel"
)

// ErrorKind defines the normalized failure taxonomy for source ingestion.
type ErrorKind string

const (
	// KindFetch indicates a network failure or non-2xx response from a remote source.
	KindFetch ErrorKind = "fetch"

	// KindMalformedInput indicates structurally invalid tabular input.
	KindMalformedInput ErrorKind = "malformed_input"

	// KindExtraction indicates a document that could not be opened at all.
	KindExtraction ErrorKind = "extraction"

	// KindNoDynamicURL indicates the index page had no link to the data page.
	KindNoDynamicURL ErrorKind = "no_dynamic_url"

	// KindRosterFormat indicates the roster document lacks the expected columns.
	KindRosterFormat ErrorKind = "roster_format"
)

// Sentinel errors, one per kind, for errors.Is checks.
var (
	ErrFetch             = errors.New("fetch failed")
	ErrMalformedInput    = errors.New("malformed input")
	ErrExtraction        = errors.New("extraction failed")
	ErrNoDynamicURLFound = errors.New("no dynamic url found")
	ErrRosterFormat      = errors.New("roster format invalid")
)

var kindSentinels = map[ErrorKind]error{
	KindFetch:          ErrFetch,
	KindMalformedInput: ErrMalformedInput,
	KindExtraction:     ErrExtraction,
	KindNoDynamicURL:   ErrNoDynamicURLFound,
	KindRosterFormat:   ErrRosterFormat,
}

// SourceError wraps ingestion failures with a normalized kind and the list
// they occurred on. List is empty for roster failures.
type SourceError struct {
	Kind       ErrorKind
	List       models.List
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	prefix := string(e.Kind)
	if e.List != "" {
		prefix = fmt.Sprintf("%s [%s]", e.List, e.Kind)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel for the error's kind. Fetch failures also match
// sentinel.ErrUnavailable and a missing data link matches sentinel.ErrNotFound.
func (e *SourceError) Is(target error) bool {
	switch {
	case e.Kind == KindFetch && target == sentinel.ErrUnavailable:
		return true
	case e.Kind == KindNoDynamicURL && target == sentinel.ErrNotFound:
		return true
	}
	return kindSentinels[e.Kind] == target
}

// Fatal reports whether the failure must abort the whole run rather than
// degrade one list to an empty corpus.
func (e *SourceError) Fatal() bool {
	return e.Kind == KindMalformedInput || e.Kind == KindRosterFormat
}

// NewSourceError creates a normalized source error.
func NewSourceError(kind ErrorKind, list models.List, message string, underlying error) *SourceError {
	return &SourceError{
		Kind:       kind,
		List:       list,
		Message:    message,
		Underlying: underlying,
	}
}

// IsFatal checks whether err should abort the run.
func IsFatal(err error) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Fatal()
	}
	return false
}

// GetKind extracts the error kind, defaulting to KindFetch for unclassified
// failures since those come from transport in practice.
func GetKind(err error) ErrorKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindFetch
}
