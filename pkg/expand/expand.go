package expand

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-declgen/pkg/model"
)

// Option configures an Expander.
type Option func(*Expander)

// WithLogger attaches a logger for debug traces. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Expander) {
		e.logger = logger
	}
}

// Expander maps (Template, VariantSet) pairs to declarations. It holds no
// state between calls and is safe for concurrent use.
type Expander struct {
	logger zerolog.Logger
}

// New constructs an Expander.
func New(options ...Option) *Expander {
	e := &Expander{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var defaultExpander = New()

// Expand expands tpl once per variant using a default Expander.
func Expand(tpl model.Template, variants model.VariantSet) ([]model.Declaration, error) {
	return defaultExpander.Expand(tpl, variants)
}

// Expand produces one declaration per variant, in order. Every variant is
// checked against the template arity before anything is emitted, so a
// mismatch yields no declarations at all. An empty set yields an empty,
// non-nil slice.
func (e *Expander) Expand(tpl model.Template, variants model.VariantSet) ([]model.Declaration, error) {
	if err := Check(tpl, variants); err != nil {
		return nil, err
	}

	out := make([]model.Declaration, 0, len(variants))
	for i, variant := range variants {
		var b strings.Builder
		writeSegments(&b, tpl.Segments, variant)
		out = append(out, model.Declaration{
			Block:    tpl.Name,
			Index:    i,
			Variant:  model.NewVariant(variant.Tokens...),
			Bindings: variant.Bindings(tpl.Placeholders),
			Text:     b.String(),
		})
	}

	e.logger.Debug().
		Str("template", tpl.Name).
		Int("variants", len(variants)).
		Msg("expanded template")
	return out, nil
}

// ExpandBlock expands a single block.
func (e *Expander) ExpandBlock(block model.Block) (model.Expansion, error) {
	tpl := block.Template
	if tpl.Name == "" {
		tpl.Name = block.Name
	}
	decls, err := e.Expand(tpl, block.Variants)
	if err != nil {
		return model.Expansion{}, err
	}
	for i := range decls {
		decls[i].Block = block.Name
	}
	return model.Expansion{Block: block, Declarations: decls}, nil
}

// ExpandSpec expands every block of the spec. All blocks are validated before
// the first one is expanded.
func (e *Expander) ExpandSpec(spec model.Spec) (model.Result, error) {
	for _, block := range spec.Blocks {
		if err := Check(block.Template, block.Variants); err != nil {
			return model.Result{}, err
		}
	}

	result := model.Result{
		Source:     spec.Source,
		Package:    spec.Package,
		Imports:    append([]string(nil), spec.Imports...),
		Expansions: make([]model.Expansion, 0, len(spec.Blocks)),
	}
	for _, block := range spec.Blocks {
		expansion, err := e.ExpandBlock(block)
		if err != nil {
			return model.Result{}, err
		}
		result.Expansions = append(result.Expansions, expansion)
	}
	return result, nil
}

// Check validates variant arity against the template without expanding.
func Check(tpl model.Template, variants model.VariantSet) error {
	want := tpl.Arity()
	for i, variant := range variants {
		if variant.Arity() != want {
			return &ArityError{Template: tpl.Name, Variant: i, Want: want, Got: variant.Arity()}
		}
	}
	return nil
}

func writeSegments(b *strings.Builder, segments []model.Segment, variant model.Variant) {
	for _, seg := range segments {
		switch seg.Kind {
		case model.SegmentLiteral:
			b.WriteString(seg.Text)
		case model.SegmentPlaceholder:
			b.WriteString(variant.Tokens[seg.Index])
		case model.SegmentSelect:
			for _, arm := range seg.Arms {
				if arm.Matches(variant) {
					writeSegments(b, arm.Body, variant)
					break
				}
			}
		}
	}
}
