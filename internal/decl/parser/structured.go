package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-declgen/internal/scan"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

// documentFile is the YAML/JSON shape of a declaration document.
type documentFile struct {
	Package      string            `json:"package" yaml:"package"`
	Imports      []string          `json:"imports" yaml:"imports"`
	Declarations []declarationFile `json:"declarations" yaml:"declarations"`
}

type declarationFile struct {
	Name         string     `json:"name" yaml:"name"`
	Placeholders []string   `json:"placeholders" yaml:"placeholders"`
	Variants     [][]string `json:"variants" yaml:"variants"`
	Template     string     `json:"template" yaml:"template"`
}

func parseYAML(file string, raw []byte, delims expand.Delimiters) (model.Spec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return model.Spec{}, &SyntaxError{Pos: model.Position{File: file}, Msg: fmt.Sprintf("decode yaml: %v", err)}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return model.Spec{}, &SyntaxError{Pos: model.Position{File: file}, Msg: "yaml document has no content"}
	}

	// The node tree only carries positions; the typed decode rejects
	// unknown keys so a misspelt field is not read as an empty one.
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var doc documentFile
	if err := decoder.Decode(&doc); err != nil {
		return model.Spec{}, &SyntaxError{Pos: model.Position{File: file}, Msg: fmt.Sprintf("decode yaml: %v", err)}
	}
	return buildSpec(file, doc, declarationPositions(file, &root), delims)
}

func parseJSON(file string, raw []byte, delims expand.Delimiters) (model.Spec, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var doc documentFile
	if err := decoder.Decode(&doc); err != nil {
		return model.Spec{}, &SyntaxError{Pos: model.Position{File: file}, Msg: fmt.Sprintf("decode json: %v", err)}
	}
	return buildSpec(file, doc, nil, delims)
}

// declarationPositions returns the location of every entry of the top-level
// `declarations` sequence.
func declarationPositions(file string, root *yaml.Node) []model.Position {
	mapping := root
	if mapping.Kind == yaml.DocumentNode {
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "declarations" {
			continue
		}
		seq := mapping.Content[i+1]
		out := make([]model.Position, 0, len(seq.Content))
		for _, item := range seq.Content {
			out = append(out, model.Position{File: file, Line: item.Line, Column: item.Column})
		}
		return out
	}
	return nil
}

func buildSpec(file string, doc documentFile, positions []model.Position, delims expand.Delimiters) (model.Spec, error) {
	spec := model.Spec{
		Package: doc.Package,
		Blocks:  make([]model.Block, 0, len(doc.Declarations)),
	}
	origin := model.Position{File: file}

	if doc.Package != "" && !scan.IsIdent(doc.Package) {
		return model.Spec{}, &SyntaxError{Pos: origin, Msg: fmt.Sprintf("package %q is not an identifier", doc.Package)}
	}
	for _, path := range doc.Imports {
		if path == "" {
			return model.Spec{}, &SyntaxError{Pos: origin, Msg: "import path is empty"}
		}
		spec.Imports = append(spec.Imports, path)
	}

	seen := make(map[string]struct{}, len(doc.Declarations))
	for i, entry := range doc.Declarations {
		pos := origin
		if i < len(positions) {
			pos = positions[i]
		}

		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("block%d", i+1)
		}
		if !scan.IsIdent(name) {
			return model.Spec{}, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("declaration name %q is not an identifier", name)}
		}
		if _, dup := seen[name]; dup {
			return model.Spec{}, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("block %q declared twice", name)}
		}
		seen[name] = struct{}{}

		if len(entry.Placeholders) == 0 {
			return model.Spec{}, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("block %q declares no placeholders", name)}
		}

		tpl, err := expand.Compile(name, scan.Dedent(entry.Template), entry.Placeholders, expand.WithDelimiters(delims))
		if err != nil {
			return model.Spec{}, &SyntaxError{Pos: pos, Msg: "invalid template body", Err: err}
		}

		variants := make(model.VariantSet, 0, len(entry.Variants))
		for j, tokens := range entry.Variants {
			if len(tokens) != len(entry.Placeholders) {
				return model.Spec{}, &SyntaxError{
					Pos: pos,
					Msg: "invalid variant group",
					Err: &expand.ArityError{Template: name, Variant: j, Want: len(entry.Placeholders), Got: len(tokens)},
				}
			}
			variants = append(variants, model.NewVariant(tokens...))
		}

		spec.Blocks = append(spec.Blocks, model.Block{
			Name:     name,
			Template: tpl,
			Variants: variants,
			Position: pos,
		})
	}
	return spec, nil
}
