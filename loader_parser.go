package declgen

import (
	internalLoader "github.com/goliatone/go-declgen/internal/decl/loader"
	internalParser "github.com/goliatone/go-declgen/internal/decl/parser"
	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/model"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...decl.LoaderOption) decl.Loader {
	return internalLoader.New(decl.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...decl.ParserOption) decl.Parser {
	return internalParser.New(decl.NewParserOptions(options...))
}

// FormatSpec renders a parsed spec back into `.decl` syntax.
func FormatSpec(spec model.Spec) string {
	return internalParser.Format(spec)
}
