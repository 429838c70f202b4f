package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

// Parser implements decl.Parser for DSL, YAML and JSON documents.
type Parser struct {
	options decl.ParserOptions
	logger  zerolog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ decl.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options decl.ParserOptions) decl.Parser {
	if !options.Delimiters.Valid() {
		options.Delimiters = expand.DefaultDelimiters
	}
	return &Parser{options: options, logger: options.Logger}
}

// Parse converts a Document into a model.Spec. Every block body is compiled
// and every variant group is checked against its template arity.
func (p *Parser) Parse(ctx context.Context, doc decl.Document) (model.Spec, error) {
	if err := ctx.Err(); err != nil {
		return model.Spec{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return model.Spec{}, errors.New("decl parser: document payload is empty")
	}

	format := p.options.Format
	if format == decl.FormatAuto {
		format = decl.DetectFormat(doc.Source(), raw)
	}

	var (
		spec model.Spec
		err  error
	)
	switch format {
	case decl.FormatDSL:
		spec, err = parseDSL(doc.Location(), string(raw), p.options.Delimiters)
	case decl.FormatYAML:
		spec, err = parseYAML(doc.Location(), raw, p.options.Delimiters)
	case decl.FormatJSON:
		spec, err = parseJSON(doc.Location(), raw, p.options.Delimiters)
	default:
		return model.Spec{}, fmt.Errorf("decl parser: unsupported format %q", format)
	}
	if err != nil {
		return model.Spec{}, err
	}

	spec.Source = doc.Location()
	p.logger.Debug().
		Str("source", spec.Source).
		Str("format", string(format)).
		Int("blocks", len(spec.Blocks)).
		Msg("parsed declaration document")
	return spec, nil
}
