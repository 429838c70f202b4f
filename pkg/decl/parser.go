package decl

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

// Parser turns a Document into a model.Spec whose templates are compiled and
// whose variant groups already match their template arity.
type Parser interface {
	Parse(ctx context.Context, doc Document) (model.Spec, error)
}

// ParserOptions exposes parsing toggles.
type ParserOptions struct {
	// Delimiters bracket placeholder references in template bodies.
	Delimiters expand.Delimiters

	// Format forces a syntax instead of detecting it per document.
	Format Format

	// Logger receives debug traces. Defaults to zerolog.Nop().
	Logger zerolog.Logger
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithDelimiters overrides the placeholder delimiters.
func WithDelimiters(delims expand.Delimiters) ParserOption {
	return func(opts *ParserOptions) {
		if delims.Valid() {
			opts.Delimiters = delims
		}
	}
}

// WithFormat forces the document syntax.
func WithFormat(format Format) ParserOption {
	return func(opts *ParserOptions) {
		opts.Format = format
	}
}

// WithParserLogger attaches a logger to the parser.
func WithParserLogger(logger zerolog.Logger) ParserOption {
	return func(opts *ParserOptions) {
		opts.Logger = logger
	}
}

// NewParserOptions applies ParserOption functions on top of the defaults.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Delimiters: expand.DefaultDelimiters,
		Format:     FormatAuto,
		Logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Construction helpers live in the top-level declgen package to avoid import cycles.
