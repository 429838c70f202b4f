package gosource

import (
	"context"
	"fmt"
	"go/format"
	"go/token"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/render"
	rendertemplate "github.com/goliatone/go-declgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-declgen/pkg/render/template/gotemplate"
)

// Name is the registry key of the Go source renderer.
const Name = "go"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           zerolog.Logger
}

// WithTemplatesFS supplies an alternate skeleton bundle via fs.FS. The bundle
// must contain file.tpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the skeleton from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogger attaches a logger for debug traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Renderer writes expanded declarations as a single gofmt'ed Go file.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logger    zerolog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the Go source renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("gosource renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, logger: cfg.logger}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/x-go; charset=utf-8"
}

// Render emits the header, package clause, imports and every declaration in
// emission order. Unless SkipFormat is set the result must be valid Go, since
// it is passed through go/format.
func (r *Renderer) Render(ctx context.Context, result model.Result, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("gosource renderer: template renderer is nil")
	}

	pkg, err := render.ResolvePackage(result, options)
	if err != nil {
		return nil, fmt.Errorf("gosource renderer: %w", err)
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("gosource renderer: invalid package name %q", pkg)
	}

	header := ""
	if !options.SkipHeader {
		header = render.Header(result, options)
	}

	out, err := r.templates.RenderTemplate(FileTemplate, map[string]any{
		"header":       header,
		"package":      pkg,
		"imports":      result.Imports,
		"declarations": result.Texts(),
	})
	if err != nil {
		return nil, fmt.Errorf("gosource renderer: render template: %w", err)
	}

	if options.SkipFormat {
		return []byte(out), nil
	}
	formatted, err := format.Source([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("gosource renderer: generated code for %s is not valid Go: %w", render.SourceName(result.Source), err)
	}

	r.logger.Debug().
		Str("source", result.Source).
		Str("package", pkg).
		Int("bytes", len(formatted)).
		Msg("rendered go source")
	return formatted, nil
}
