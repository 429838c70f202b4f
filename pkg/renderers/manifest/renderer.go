// Package manifest renders an expansion as a JSON document describing every
// block, its placeholders and the declarations produced for each variant.
// Editors and review tooling consume it instead of parsing generated code.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/render"
)

// Name is the registry key of the manifest renderer.
const Name = "manifest"

// Document is the manifest payload.
type Document struct {
	Generator string   `json:"generator"`
	Source    string   `json:"source,omitempty"`
	Package   string   `json:"package,omitempty"`
	Imports   []string `json:"imports,omitempty"`
	Blocks    []Block  `json:"blocks"`
}

// Block describes one expanded block.
type Block struct {
	Name         string        `json:"name"`
	Position     string        `json:"position,omitempty"`
	Placeholders []string      `json:"placeholders"`
	Declarations []Declaration `json:"declarations"`
}

// Declaration records one variant and the text it expanded to.
type Declaration struct {
	Index    int               `json:"index"`
	Tokens   []string          `json:"tokens"`
	Bindings map[string]string `json:"bindings"`
	Text     string            `json:"text"`
}

type Renderer struct{}

var _ render.Renderer = Renderer{}

// New constructs the manifest renderer.
func New() Renderer {
	return Renderer{}
}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "application/json"
}

func (Renderer) Render(ctx context.Context, result model.Result, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(Build(result, options), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest renderer: encode: %w", err)
	}
	return append(payload, '\n'), nil
}

// Build converts a Result into the manifest Document. A missing package is
// left empty rather than treated as an error.
func Build(result model.Result, options render.RenderOptions) Document {
	generator := options.Generator
	if generator == "" {
		generator = render.DefaultGenerator
	}
	pkg, err := render.ResolvePackage(result, options)
	if errors.Is(err, render.ErrNoPackage) {
		pkg = ""
	}

	doc := Document{
		Generator: generator,
		Source:    render.SourceName(result.Source),
		Package:   pkg,
		Imports:   result.Imports,
		Blocks:    make([]Block, 0, len(result.Expansions)),
	}
	for _, exp := range result.Expansions {
		block := Block{
			Name:         exp.Block.Name,
			Placeholders: exp.Block.Template.Placeholders,
			Declarations: make([]Declaration, 0, len(exp.Declarations)),
		}
		if exp.Block.Position.Line > 0 {
			block.Position = fmt.Sprintf("%d:%d", exp.Block.Position.Line, exp.Block.Position.Column)
		}
		for _, d := range exp.Declarations {
			block.Declarations = append(block.Declarations, Declaration{
				Index:    d.Index,
				Tokens:   d.Variant.Tokens,
				Bindings: d.Bindings,
				Text:     d.Text,
			})
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc
}
