package htseg

import (
	"fmt"
	"strings"
)

// ParseError indicates the source document could not be parsed.
// It is fatal for the document but must not abort a batch.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// MissingSegmentError indicates a translation map lacks one or more segment
// ids referenced by placeholders in the stripped document. Fatal for that
// merge; an unresolved placeholder is never silently left in place.
type MissingSegmentError struct {
	IDs []string
}

func (e *MissingSegmentError) Error() string {
	return fmt.Sprintf("merge: %d placeholder(s) without translation: %s",
		len(e.IDs), strings.Join(e.IDs, ", "))
}

// MemoryCorruptionError indicates a persisted translation memory file could
// not be read. Recoverable: the memory is treated as empty and the loss is
// logged, never fatal to the run.
type MemoryCorruptionError struct {
	Path  string
	Cause error
}

func (e *MemoryCorruptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation memory corrupted (%s): %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("translation memory corrupted (%s)", e.Path)
}

func (e *MemoryCorruptionError) Unwrap() error {
	return e.Cause
}

// MemoryError indicates a translation memory backend operation failed.
type MemoryError struct {
	Message string
	Cause   error
}

func (e *MemoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("memory error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("memory error: %s", e.Message)
}

func (e *MemoryError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an external translation or refinement collaborator
// failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates a collaborator returned a different number of
// translations than it was given texts.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
