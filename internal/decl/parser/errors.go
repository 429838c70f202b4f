package parser

import (
	"fmt"

	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

// SyntaxError locates a grammar violation inside a declaration document.
type SyntaxError struct {
	Pos model.Position
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decl parser: %s: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("decl parser: %s: %s", e.Pos, e.Msg)
}

// Unwrap returns the underlying cause, or expand.ErrGrammar when there is
// none, so every SyntaxError matches errors.Is(err, expand.ErrGrammar).
func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return expand.ErrGrammar
}
