// Package declgen expands declaration templates into source code. A template
// names its placeholders and a variant set supplies one token group per
// declaration to emit:
//
//	duplicate values [NAME][TYPE];
//		[Foo][int32];
//		[Bar][string];
//	{
//		type {NAME} struct { Value {TYPE} }
//	}
//
// Generate runs the whole load, parse, expand and render pipeline and returns
// a gofmt'ed Go file by default. ExpandString covers the in-memory case.
package declgen

import (
	"context"

	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/orchestrator"
	"github.com/goliatone/go-declgen/pkg/render"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// ErrGrammar is returned, wrapped, whenever input does not match the
// declaration grammar.
var ErrGrammar = expand.ErrGrammar

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the document behind source, expands every block and renders
// the result with the named renderer (empty selects the Go renderer).
func Generate(ctx context.Context, source decl.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: rendererName,
	})
}

// GenerateFromDocument renders a pre-loaded document, bypassing the loader.
func GenerateFromDocument(ctx context.Context, doc decl.Document, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Renderer: rendererName,
	})
}

// ExpandString compiles body with the given placeholders and returns one
// substituted declaration per variant, in order. An empty variant list yields
// an empty slice; a variant with the wrong number of tokens fails before any
// declaration is produced.
func ExpandString(body string, placeholders []string, variants ...[]string) ([]string, error) {
	tpl, err := expand.Compile("", body, placeholders)
	if err != nil {
		return nil, err
	}

	set := make(model.VariantSet, 0, len(variants))
	for _, tokens := range variants {
		set = append(set, model.NewVariant(tokens...))
	}

	decls, err := expand.Expand(tpl, set)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.Text)
	}
	return out, nil
}
