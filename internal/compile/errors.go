package compile

import "fmt"

// ValidationError reports a malformed or out-of-range input field.
// It is fatal: no report is rendered when validation fails.
//
// Design decision: We use a struct carrying the field path rather than
// sentinel errors because the diagnostic must name the exact offending
// field (for example "pages[2].findings[0].score"), and the set of
// possible paths is unbounded.
type ValidationError struct {
	// Field is the path of the offending field in the input record.
	Field string

	// Reason describes which invariant the field violated.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid audit record: %s: %s", e.Field, e.Reason)
}

// newValidationError builds a ValidationError with a formatted field path.
func newValidationError(field, reasonFormat string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(reasonFormat, args...),
	}
}

// RenderError reports an output-format-specific failure, such as an
// unsupported format name or a write failure mid-render. It is fatal and
// callers must not leave a partial artifact behind.
type RenderError struct {
	// Format is the output format that failed.
	Format string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render failed for format %q", e.Format)
	}
	return fmt.Sprintf("render failed for format %q: %v", e.Format, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *RenderError) Unwrap() error {
	return e.Err
}
