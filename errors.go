package re2c

import (
	"github.com/pkg/errors"

	"github.com/coregx/re2c/options"
)

// ErrUnsupportedFlag matches, via errors.Is, every error caused by a
// byte outside the flag grammar.
var ErrUnsupportedFlag = options.ErrUnsupportedFlag

// ErrNullHandle reports a nil or already freed pattern.
var ErrNullHandle = errors.New("re2c: null or freed pattern handle")

// SyntaxError reports a pattern rejected by the engine.
type SyntaxError struct {
	// Pattern is the pattern as the caller supplied it, before any
	// rewriting.
	Pattern string
	// Err is the engine's error.
	Err error
}

// Error returns the engine's message verbatim.
func (e *SyntaxError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying engine error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
