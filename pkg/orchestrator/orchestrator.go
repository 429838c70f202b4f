package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	internalLoader "github.com/goliatone/go-declgen/internal/decl/loader"
	internalParser "github.com/goliatone/go-declgen/internal/decl/parser"
	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/render"
	"github.com/goliatone/go-declgen/pkg/renderers/gosource"
	"github.com/goliatone/go-declgen/pkg/renderers/manifest"
	"github.com/goliatone/go-declgen/pkg/renderers/text"
)

const defaultRendererName = gosource.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader decl.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom document parser.
func WithParser(parser decl.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithExpander injects a configured expander.
func WithExpander(expander *expand.Expander) Option {
	return func(o *Orchestrator) {
		o.expander = expander
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers that run, in order, between
// expansion and rendering.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		for _, t := range transformers {
			if t != nil {
				o.transformers = append(o.transformers, t)
			}
		}
	}
}

// WithLogger attaches a logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from declaration document to rendered
// output. Missing stages are filled with the built-in implementations.
type Orchestrator struct {
	loader          decl.Loader
	parser          decl.Parser
	expander        *expand.Expander
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	logger          zerolog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies where the document lives. Optional when Document is
	// supplied.
	Source decl.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *decl.Document

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions is passed through to the renderer.
	RenderOptions render.RenderOptions

	// Blocks restricts expansion to the named blocks, kept in document order.
	// Empty selects every block.
	Blocks []string
}

// Parse loads and parses the requested document and applies the block filter.
func (o *Orchestrator) Parse(ctx context.Context, req Request) (model.Spec, error) {
	if ctx == nil {
		return model.Spec{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Spec{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.Spec{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.Spec{}, err
	}

	spec, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return model.Spec{}, fmt.Errorf("orchestrator: parse document: %w", err)
	}
	return selectBlocks(spec, req.Blocks)
}

// Expand runs the pipeline up to and including transformers.
func (o *Orchestrator) Expand(ctx context.Context, req Request) (model.Result, error) {
	spec, err := o.Parse(ctx, req)
	if err != nil {
		return model.Result{}, err
	}

	result, err := o.expander.ExpandSpec(spec)
	if err != nil {
		return model.Result{}, fmt.Errorf("orchestrator: expand %s: %w", spec.Source, err)
	}

	for _, t := range o.transformers {
		if err := t.Transform(ctx, &result); err != nil {
			return model.Result{}, fmt.Errorf("orchestrator: transform result: %w", err)
		}
	}

	o.logger.Debug().
		Str("source", result.Source).
		Int("blocks", len(result.Expansions)).
		Int("declarations", len(result.Declarations())).
		Msg("expanded document")
	return result, nil
}

// Generate executes load -> parse -> expand -> transform -> render and
// returns the rendered bytes (Go source for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Expand(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, result, req.Renderer, req.RenderOptions)
}

// Render renders an already expanded result.
func (o *Orchestrator) Render(ctx context.Context, result model.Result, rendererName string, options render.RenderOptions) ([]byte, error) {
	renderer, err := o.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, result, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (decl.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return decl.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return decl.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(decl.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(decl.NewParserOptions(decl.WithParserLogger(o.logger)))
	}
	if o.expander == nil {
		o.expander = expand.New(expand.WithLogger(o.logger))
	}
	if o.registry == nil {
		registry, err := DefaultRegistry(o.logger)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// DefaultRegistry returns a registry holding the built-in go, text and
// manifest renderers.
func DefaultRegistry(logger zerolog.Logger) (*render.Registry, error) {
	goRenderer, err := gosource.New(gosource.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	return render.NewRegistry(goRenderer, text.New(), manifest.New()), nil
}

func selectBlocks(spec model.Spec, names []string) (model.Spec, error) {
	if len(names) == 0 {
		return spec, nil
	}
	for _, name := range names {
		if _, ok := spec.Block(name); !ok {
			return model.Spec{}, fmt.Errorf("orchestrator: block %q not found in %s", name, spec.Source)
		}
	}

	filtered := spec
	filtered.Blocks = make([]model.Block, 0, len(names))
	for _, block := range spec.Blocks {
		if slices.Contains(names, block.Name) {
			filtered.Blocks = append(filtered.Blocks, block)
		}
	}
	return filtered, nil
}
