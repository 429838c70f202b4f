// Package scaffold walks a user through writing a declaration document and
// returns it as canonical DSL text.
package scaffold

import (
	"context"
	"fmt"
	"go/token"
	"strings"

	"github.com/goliatone/go-declgen/internal/decl/parser"
	"github.com/goliatone/go-declgen/internal/scan"
	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

// Result is the outcome of a wizard run.
type Result struct {
	Spec   model.Spec
	Source string
}

// Wizard asks for a package, imports and one or more blocks.
type Wizard struct {
	driver     PromptDriver
	delimiters expand.Delimiters
}

// New constructs a Wizard around driver.
func New(driver PromptDriver) *Wizard {
	return &Wizard{driver: driver, delimiters: expand.DefaultDelimiters}
}

// WithDelimiters sets the placeholder delimiters used when compiling bodies.
func (w *Wizard) WithDelimiters(delims expand.Delimiters) *Wizard {
	if delims.Valid() {
		w.delimiters = delims
	}
	return w
}

// Run drives the prompts. The produced source is parsed again before it is
// returned, so a Result always holds a loadable document.
func (w *Wizard) Run(ctx context.Context) (Result, error) {
	if w.driver == nil {
		return Result{}, fmt.Errorf("scaffold: prompt driver is required")
	}

	pkg, err := w.driver.Input(ctx, InputConfig{
		Message:   "Package name",
		Default:   "main",
		Validator: validIdent,
	})
	if err != nil {
		return Result{}, err
	}

	rawImports, err := w.driver.Input(ctx, InputConfig{
		Message: "Imports (comma separated, optional)",
	})
	if err != nil {
		return Result{}, err
	}

	spec := model.Spec{Package: strings.TrimSpace(pkg), Imports: splitList(rawImports)}
	for {
		block, err := w.askBlock(ctx, len(spec.Blocks)+1)
		if err != nil {
			return Result{}, err
		}
		spec.Blocks = append(spec.Blocks, block)

		more, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add another block?"})
		if err != nil {
			return Result{}, err
		}
		if !more {
			break
		}
	}

	source := parser.Format(spec)
	doc, err := decl.NewDocument(decl.SourceFromBytes("scaffold.decl", []byte(source)), []byte(source))
	if err != nil {
		return Result{}, fmt.Errorf("scaffold: %w", err)
	}
	parsed, err := parser.New(decl.NewParserOptions(decl.WithDelimiters(w.delimiters))).Parse(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("scaffold: generated document does not parse: %w", err)
	}
	return Result{Spec: parsed, Source: source}, nil
}

func (w *Wizard) askBlock(ctx context.Context, ordinal int) (model.Block, error) {
	name, err := w.driver.Input(ctx, InputConfig{
		Message:   fmt.Sprintf("Block %d name", ordinal),
		Default:   fmt.Sprintf("block%d", ordinal),
		Validator: validIdent,
	})
	if err != nil {
		return model.Block{}, err
	}
	name = strings.TrimSpace(name)

	rawPlaceholders, err := w.driver.Input(ctx, InputConfig{
		Message:   "Placeholders (comma separated)",
		Help:      "Each name is referenced in the body as {NAME}.",
		Validator: validPlaceholders,
	})
	if err != nil {
		return model.Block{}, err
	}
	placeholders := splitList(rawPlaceholders)

	body, err := w.driver.TextArea(ctx, TextAreaConfig{Message: "Template body"})
	if err != nil {
		return model.Block{}, err
	}
	tpl, err := expand.Compile(name, scan.Dedent(body), placeholders, expand.WithDelimiters(w.delimiters))
	if err != nil {
		return model.Block{}, fmt.Errorf("scaffold: %w", err)
	}

	var variants model.VariantSet
	for {
		raw, err := w.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Variant %d tokens (comma separated, empty to finish)", len(variants)+1),
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				if got := len(strings.Split(s, ",")); got != len(placeholders) {
					return fmt.Errorf("expected %d tokens, got %d", len(placeholders), got)
				}
				return nil
			},
		})
		if err != nil {
			return model.Block{}, err
		}
		if strings.TrimSpace(raw) == "" {
			break
		}
		tokens := strings.Split(raw, ",")
		for i := range tokens {
			tokens[i] = strings.TrimSpace(tokens[i])
		}
		variants = append(variants, model.NewVariant(tokens...))
	}

	if err := expand.Check(tpl, variants); err != nil {
		return model.Block{}, fmt.Errorf("scaffold: %w", err)
	}
	if err := w.driver.Info(ctx, fmt.Sprintf("block %s: %d variant(s)", name, len(variants))); err != nil {
		return model.Block{}, err
	}
	return model.Block{Name: name, Template: tpl, Variants: variants}, nil
}

func validIdent(s string) error {
	if !token.IsIdentifier(strings.TrimSpace(s)) {
		return fmt.Errorf("%q is not a valid identifier", s)
	}
	return nil
}

func validPlaceholders(s string) error {
	names := splitList(s)
	if len(names) == 0 {
		return fmt.Errorf("at least one placeholder is required")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := validIdent(name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("placeholder %q repeated", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
