package cli

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	declgen "github.com/goliatone/go-declgen"
	"github.com/goliatone/go-declgen/internal/logging"
	"github.com/goliatone/go-declgen/internal/watch"
	"github.com/goliatone/go-declgen/pkg/config"
	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/orchestrator"
)

var rendererExtensions = map[string]string{
	"go":       ".go",
	"text":     ".txt",
	"manifest": ".json",
}

type pipelineOptions struct {
	imports []string
	preset  string
}

// pipeline binds resolved settings to an orchestrator for batch runs.
type pipeline struct {
	orch   *orchestrator.Orchestrator
	cfg    config.Config
	logger zerolog.Logger
}

type target struct {
	dir    string
	stdout bool
	blocks []string
}

func newPipeline(cfg config.Config, opts pipelineOptions) (*pipeline, error) {
	logger := logging.Component("pipeline")

	var transformers []orchestrator.Transformer
	preset := opts.preset
	if preset == "" {
		preset = cfg.Preset
	}
	if preset != "" {
		t, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
		if err != nil {
			return nil, err
		}
		transformers = append(transformers, t)
	}
	if imports := append(slices.Clone(cfg.Imports), opts.imports...); len(imports) > 0 {
		transformers = append(transformers, orchestrator.ImportsTransformer(imports...))
	}

	parserOpts := append(cfg.ParserOptions(), decl.WithParserLogger(logger))
	orch := declgen.NewOrchestrator(
		orchestrator.WithLoader(declgen.NewLoader(cfg.LoaderOptions()...)),
		orchestrator.WithParser(declgen.NewParser(parserOpts...)),
		orchestrator.WithDefaultRenderer(cfg.Renderer),
		orchestrator.WithTransformers(transformers...),
		orchestrator.WithLogger(logger),
	)
	return &pipeline{orch: orch, cfg: cfg, logger: logger}, nil
}

func (p *pipeline) request(input string, blocks []string) orchestrator.Request {
	return orchestrator.Request{
		Source:        sourceFor(input),
		Renderer:      p.cfg.Renderer,
		RenderOptions: p.cfg.RenderOptions(defaultPackage(input)),
		Blocks:        blocks,
	}
}

// expandAll generates every input with at most cfg.Jobs documents in
// flight. With stdout set, outputs are written to w in input order;
// otherwise the written paths are returned in input order.
func (p *pipeline) expandAll(ctx context.Context, inputs []string, tgt target, w io.Writer) ([]string, error) {
	outputs := make([][]byte, len(inputs))
	paths := make([]string, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			out, err := p.orch.Generate(gctx, p.request(input, tgt.blocks))
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if tgt.stdout {
				outputs[i] = out
				return nil
			}
			dest := outputPath(input, tgt.dir, p.cfg.Suffix, p.cfg.Renderer)
			if err := writeIfChanged(dest, out); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			p.logger.Info().Str("input", input).Str("output", dest).Msg("generated")
			paths[i] = dest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tgt.stdout {
		for _, out := range outputs {
			if _, err := w.Write(out); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return paths, nil
}

type checkReport struct {
	Input        string
	Declarations int
	Err          error
}

// checkAll parses and expands every input without rendering. Reports keep
// input order.
func (p *pipeline) checkAll(ctx context.Context, inputs []string) []checkReport {
	reports := make([]checkReport, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			reports[i].Input = input
			result, err := p.orch.Expand(gctx, p.request(input, nil))
			if err != nil {
				reports[i].Err = err
				return nil
			}
			reports[i].Declarations = len(result.Declarations())
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func sourceFor(input string) decl.Source {
	if isURL(input) {
		return decl.SourceFromURL(input)
	}
	return decl.SourceFromFile(input)
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// defaultPackage names the package after the input's directory when that is
// a valid identifier.
func defaultPackage(input string) string {
	if isURL(input) {
		return "main"
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "main"
	}
	if name := filepath.Base(filepath.Dir(abs)); token.IsIdentifier(name) {
		return name
	}
	return "main"
}

// outputPath maps shapes.decl to shapes<suffix><ext>, next to the input or
// inside dir.
func outputPath(input, dir, suffix, renderer string) string {
	base := filepath.Base(input)
	if isURL(input) {
		base = "document"
		if u, err := url.Parse(input); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			base = path.Base(u.Path)
		}
	}
	ext, ok := rendererExtensions[renderer]
	if !ok {
		ext = ".txt"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base)) + suffix + ext

	if dir == "" {
		if isURL(input) {
			return name
		}
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// collectInputs expands directory arguments into the declaration documents
// they contain. Files and URLs pass through unchanged.
func collectInputs(args []string) ([]string, error) {
	matcher := watch.New(".")
	var out []string
	for _, arg := range args {
		if isURL(arg) {
			out = append(out, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if matcher.Matches(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no declaration documents found in %s", strings.Join(args, ", "))
	}
	return out, nil
}

// writeIfChanged leaves the file untouched when its content is current so
// build tools do not see a spurious modification.
func writeIfChanged(dest string, data []byte) error {
	if existing, err := os.ReadFile(dest); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
