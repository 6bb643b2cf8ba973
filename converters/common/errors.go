package common

import (
	"errors"
	"fmt"
)

// ErrScanTimeout is returned when an input stream stops producing data for longer
// than the configured idle timeout.
var ErrScanTimeout = errors.New("scan timed out")

// Kind classifies a conversion failure so callers can tell bad data from
// infrastructure trouble.
type Kind string

const (
	KindMalformedInput   Kind = "MALFORMED_INPUT"
	KindUnsupportedShape Kind = "UNSUPPORTED_SHAPE"
	KindPartialRecord    Kind = "PARTIAL_RECORD_SKIPPED"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindUnsafeIdentifier Kind = "UNSAFE_IDENTIFIER"
	KindInternal         Kind = "INTERNAL"
)

// ConversionError is the single error type returned by a conversion call.
// Format is the family label ("CSV", "JSON", "JSONL", ...) and is empty while the
// error is still travelling inside a driver.
type ConversionError struct {
	Format string
	Kind   Kind
	Err    error
}

// Error returns a formatted error string.
func (e *ConversionError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("Error converting %s to SQLite: %v", e.Format, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ConversionError of the same kind.
func (e *ConversionError) Is(target error) bool {
	var t *ConversionError
	if errors.As(target, &t) {
		return t.Err == nil && e.Kind == t.Kind
	}
	return false
}

// NewError creates a ConversionError of the given kind from a message.
func NewError(kind Kind, format string, args ...interface{}) *ConversionError {
	return &ConversionError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WrapError creates a ConversionError of the given kind around cause.
func WrapError(kind Kind, cause error) *ConversionError {
	return &ConversionError{Kind: kind, Err: cause}
}

// Sentinels for errors.Is matching by kind, e.g. errors.Is(err, common.ErrStoreUnavailable).
var (
	ErrMalformedInput   = &ConversionError{Kind: KindMalformedInput}
	ErrUnsupportedShape = &ConversionError{Kind: KindUnsupportedShape}
	ErrStoreUnavailable = &ConversionError{Kind: KindStoreUnavailable}
	ErrUnsafeIdentifier = &ConversionError{Kind: KindUnsafeIdentifier}
)

// WithFormat attaches the format label to err. Errors that carry no kind yet are
// classified as internal.
func WithFormat(label string, err error) *ConversionError {
	var ce *ConversionError
	if errors.As(err, &ce) {
		if ce.Format == label {
			return ce
		}
		return &ConversionError{Format: label, Kind: ce.Kind, Err: ce.Err}
	}
	return &ConversionError{Format: label, Kind: KindInternal, Err: err}
}

// KindOf extracts the kind from an error chain.
// Returns empty string if the error is not a ConversionError.
func KindOf(err error) Kind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsInputError reports whether err was caused by the data itself.
func IsInputError(err error) bool {
	switch KindOf(err) {
	case KindMalformedInput, KindUnsupportedShape:
		return true
	}
	return false
}

// IsRetryable reports whether retrying the same input could succeed.
func IsRetryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}

// LineError describes one input line that was skipped.
type LineError struct {
	Line int    // 1-based line number
	Raw  string // the line as read
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Is matches the partial-record kind so skipped lines can be told apart from
// terminal failures.
func (e *LineError) Is(target error) bool {
	var t *ConversionError
	if errors.As(target, &t) {
		return t.Err == nil && t.Kind == KindPartialRecord
	}
	return false
}

// ErrPartialRecord matches every *LineError.
var ErrPartialRecord = &ConversionError{Kind: KindPartialRecord}
