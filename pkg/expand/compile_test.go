package expand_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

func TestCompile_LeavesUndeclaredBracesLiteral(t *testing.T) {
	tpl, err := expand.Compile("lit", "type {NAME} struct {ID int; m map[string]int}", []string{"NAME"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := []model.Segment{
		{Kind: model.SegmentLiteral, Text: "type "},
		{Kind: model.SegmentPlaceholder, Name: "NAME", Index: 0},
		{Kind: model.SegmentLiteral, Text: " struct {ID int; m map[string]int}"},
	}
	if diff := cmp.Diff(want, tpl.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_TrimsPlaceholderWhitespace(t *testing.T) {
	tpl := expand.MustCompile("ws", "{ NAME }", []string{"NAME"})
	if len(tpl.Segments) != 1 || tpl.Segments[0].Kind != model.SegmentPlaceholder {
		t.Fatalf("expected single placeholder segment, got %+v", tpl.Segments)
	}
}

func TestCompile_CustomDelimiters(t *testing.T) {
	tpl, err := expand.Compile("custom", "type ${NAME} struct{ {NAME} }", []string{"NAME"},
		expand.WithDelimiters(expand.Delimiters{Left: "${", Right: "}"}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	decls, err := expand.Expand(tpl, model.VariantSet{model.NewVariant("Foo")})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got, want := decls[0].Text, "type Foo struct{ {NAME} }"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestCompile_IgnoresIncompleteDelimiters(t *testing.T) {
	tpl, err := expand.Compile("partial", "{NAME}", []string{"NAME"},
		expand.WithDelimiters(expand.Delimiters{Left: "<<"}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if tpl.Segments[0].Kind != model.SegmentPlaceholder {
		t.Fatalf("expected default delimiters to remain active")
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := []struct {
		name         string
		body         string
		placeholders []string
	}{
		{name: "duplicate placeholder", body: "{A}", placeholders: []string{"A", "A"}},
		{name: "invalid placeholder", body: "{A}", placeholders: []string{"not valid"}},
		{name: "empty placeholder", body: "", placeholders: []string{""}},
		{name: "select without arms", body: "@select()", placeholders: []string{"A"}},
		{name: "select missing colon", body: "@select([a] {x})", placeholders: []string{"A"}},
		{name: "select body without braces", body: "@select([a]: x)", placeholders: []string{"A"}},
		{name: "select bad pattern", body: "@select(a: {x})", placeholders: []string{"A"}},
		{name: "select unbalanced", body: "@select([a]: {x}", placeholders: []string{"A"}},
		{name: "select missing comma", body: "@select([a]: {x} [b]: {y})", placeholders: []string{"A"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := expand.Compile("bad", tc.body, tc.placeholders)
			if !errors.Is(err, expand.ErrGrammar) {
				t.Fatalf("expected grammar error, got %v", err)
			}
			var compileErr *expand.CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("expected *CompileError, got %T", err)
			}
		})
	}
}

func TestCompile_SelectKeywordWithoutParenIsLiteral(t *testing.T) {
	tpl := expand.MustCompile("mail", "contact @selectors today", []string{"A"})
	if len(tpl.Segments) != 1 || tpl.Segments[0].Text != "contact @selectors today" {
		t.Fatalf("expected literal body, got %+v", tpl.Segments)
	}
}

func TestCompile_SelectTrailingComma(t *testing.T) {
	tpl := expand.MustCompile("trail", "@select([a]: {A}, _: {B},)", []string{"V"})
	if len(tpl.Segments) != 1 || len(tpl.Segments[0].Arms) != 2 {
		t.Fatalf("expected one select with two arms, got %+v", tpl.Segments)
	}
}
