package decl_test

import (
	"testing"

	"github.com/goliatone/go-declgen/pkg/decl"
)

func TestNewDocumentValidatesInputs(t *testing.T) {
	if _, err := decl.NewDocument(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := decl.NewDocument(decl.SourceFromFile("a.decl"), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestDocumentRawIsDefensiveCopy(t *testing.T) {
	raw := []byte("duplicate [A]; {}")
	doc := decl.MustNewDocument(decl.SourceFromFile("a.decl"), raw)
	raw[0] = 'X'

	got := doc.Raw()
	if got[0] != 'd' {
		t.Fatalf("document mutated through caller slice")
	}
	got[0] = 'Y'
	if doc.Raw()[0] != 'd' {
		t.Fatalf("document mutated through Raw result")
	}
}

func TestDocumentName(t *testing.T) {
	cases := []struct {
		src  decl.Source
		want string
	}{
		{src: decl.SourceFromFile("gen/shapes.decl"), want: "shapes.decl"},
		{src: decl.SourceFromFS("nested/dir/ops.yaml"), want: "ops.yaml"},
		{src: decl.SourceFromURL("https://example.com/decl/ops.decl?ref=main"), want: "ops.decl"},
		{src: decl.SourceFromBytes("inline.decl", []byte("x")), want: "inline.decl"},
	}
	for _, tc := range cases {
		doc := decl.MustNewDocument(tc.src, []byte("x"))
		if got := doc.Name(); got != tc.want {
			t.Fatalf("Name(%s) = %q, want %q", tc.src.Location(), got, tc.want)
		}
	}
}

func TestSourceFromURLPanicsOnInvalidInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid URL")
		}
	}()
	decl.SourceFromURL("::not a url")
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		src  decl.Source
		raw  string
		want decl.Format
	}{
		{name: "decl extension", src: decl.SourceFromFile("a.decl"), raw: "{}", want: decl.FormatDSL},
		{name: "dup extension", src: decl.SourceFromFile("a.dup"), raw: "", want: decl.FormatDSL},
		{name: "yaml extension", src: decl.SourceFromFile("a.yml"), raw: "", want: decl.FormatYAML},
		{name: "json extension", src: decl.SourceFromFile("a.JSON"), raw: "", want: decl.FormatJSON},
		{name: "sniff json", src: decl.SourceFromBytes("inline", nil), raw: `{"declarations": []}`, want: decl.FormatJSON},
		{name: "sniff yaml", src: decl.SourceFromBytes("inline", nil), raw: "package: x\ndeclarations:\n  - name: a\n", want: decl.FormatYAML},
		{name: "default dsl", src: nil, raw: "duplicate [A]; {}", want: decl.FormatDSL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decl.DetectFormat(tc.src, []byte(tc.raw)); got != tc.want {
				t.Fatalf("DetectFormat = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewParserOptionsDefaults(t *testing.T) {
	opts := decl.NewParserOptions()
	if opts.Delimiters.Left != "{" || opts.Delimiters.Right != "}" {
		t.Fatalf("unexpected default delimiters: %+v", opts.Delimiters)
	}
	if opts.Format != decl.FormatAuto {
		t.Fatalf("unexpected default format %q", opts.Format)
	}
}
