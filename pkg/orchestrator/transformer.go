package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-declgen/pkg/model"
)

// Transformer mutates an expanded Result before it is rendered.
type Transformer interface {
	Transform(ctx context.Context, result *model.Result) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, result *model.Result) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, result *model.Result) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, result)
}

// ImportsTransformer appends import paths the result does not declare yet.
func ImportsTransformer(paths ...string) Transformer {
	return TransformerFunc(func(_ context.Context, result *model.Result) error {
		result.Imports = mergeImports(result.Imports, paths)
		return nil
	})
}

// PresetTransformer applies declarative overrides loaded from a YAML or JSON
// document:
//
//	package: shapes
//	imports: [fmt, strings]
//	exclude: [debugOnly]
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Package string   `yaml:"package"`
	Imports []string `yaml:"imports"`
	Exclude []string `yaml:"exclude"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the overrides. Excluding a block that does not exist is
// an error so typos do not silently keep output.
func (t *PresetTransformer) Transform(ctx context.Context, result *model.Result) error {
	if result == nil {
		return errors.New("preset transformer: result is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if pkg := strings.TrimSpace(t.document.Package); pkg != "" {
		result.Package = pkg
	}
	result.Imports = mergeImports(result.Imports, t.document.Imports)

	for _, name := range t.document.Exclude {
		idx := slices.IndexFunc(result.Expansions, func(exp model.Expansion) bool {
			return exp.Block.Name == name
		})
		if idx < 0 {
			return fmt.Errorf("preset transformer: block %q not found", name)
		}
		result.Expansions = slices.Delete(result.Expansions, idx, idx+1)
	}
	return nil
}

func mergeImports(existing, extra []string) []string {
	out := slices.Clone(existing)
	for _, path := range extra {
		path = strings.TrimSpace(path)
		if path == "" || slices.Contains(out, path) {
			continue
		}
		out = append(out, path)
	}
	return out
}
