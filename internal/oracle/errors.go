// Package oracle answers questions about regex source: does it compile,
// does a string fully match it, how many strings does it derive, and what
// are they.
package oracle

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *SyntaxError.
	ErrSyntax = errors.New("oracle: syntax error")

	// ErrDivergent is returned by Enumerate when the pattern derives more
	// strings than the limit allows.
	ErrDivergent = errors.New("oracle: enumeration exceeds limit")

	// ErrUnsupported is returned for constructs the synthesizer does not model:
	// anchors, word boundaries and case folding.
	ErrUnsupported = errors.New("oracle: unsupported construct")

	// ErrNoMatch is returned by Generate when the pattern matches nothing.
	ErrNoMatch = errors.New("oracle: pattern matches nothing")

	// ErrTimeout is returned when the context deadline passes mid-computation.
	ErrTimeout = errors.New("oracle: deadline exceeded")
)

// SyntaxError reports regex source that failed to parse or compile.
type SyntaxError struct {
	Source string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("oracle: invalid pattern %q: %v", e.Source, e.Err)
}

// Unwrap exposes both ErrSyntax and the underlying parser error.
func (e *SyntaxError) Unwrap() []error {
	return []error{ErrSyntax, e.Err}
}

// checkContext maps a finished context to ErrTimeout or its cause.
func checkContext(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return err
	}
}
