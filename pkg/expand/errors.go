package expand

import (
	"errors"
	"fmt"
)

// ErrGrammar is the single failure family of the expander: the input does not
// match the declaration grammar. Every error returned by this package wraps it.
var ErrGrammar = errors.New("input does not match the declaration grammar")

// ArityError reports a variant whose token count differs from the number of
// placeholders its template declares.
type ArityError struct {
	Template string
	Variant  int
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expand: template %q variant %d supplies %d tokens, want %d", e.Template, e.Variant, e.Got, e.Want)
}

// Unwrap exposes ErrGrammar to errors.Is.
func (e *ArityError) Unwrap() error {
	return ErrGrammar
}

// CompileError reports a malformed template body. Offset is relative to the
// body passed to Compile.
type CompileError struct {
	Template string
	Offset   int
	Msg      string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("expand: template %q offset %d: %s", e.Template, e.Offset, e.Msg)
}

// Unwrap exposes ErrGrammar to errors.Is.
func (e *CompileError) Unwrap() error {
	return ErrGrammar
}
