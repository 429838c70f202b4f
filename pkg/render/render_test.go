package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-declgen/pkg/model"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, model.Result, RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(stubRenderer{name: "text"})
	if err := registry.Register(stubRenderer{name: "go"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "go"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}

	if diff := cmp.Diff([]string{"go", "text"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("text") || registry.Has("html") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := registry.Get("html"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestResolvePackage(t *testing.T) {
	cases := []struct {
		name    string
		result  model.Result
		options RenderOptions
		want    string
	}{
		{name: "override", result: model.Result{Package: "doc"}, options: RenderOptions{Package: "flag", DefaultPackage: "dir"}, want: "flag"},
		{name: "document", result: model.Result{Package: "doc"}, options: RenderOptions{DefaultPackage: "dir"}, want: "doc"},
		{name: "default", options: RenderOptions{DefaultPackage: " dir "}, want: "dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolvePackage(tc.result, tc.options)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("package = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := ResolvePackage(model.Result{}, RenderOptions{}); !errors.Is(err, ErrNoPackage) {
		t.Fatalf("expected ErrNoPackage, got %v", err)
	}
}

func TestHeader(t *testing.T) {
	got := Header(model.Result{Source: "/tmp/gen/shapes.decl"}, RenderOptions{})
	if want := "// Code generated by declgen from shapes.decl. DO NOT EDIT."; got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}

	got = Header(model.Result{}, RenderOptions{Generator: "tool"})
	if want := "// Code generated by tool. DO NOT EDIT."; got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}
}

func TestSourceName(t *testing.T) {
	cases := map[string]string{
		"":                                   "",
		"shapes.decl":                        "shapes.decl",
		`C:\work\ops.decl`:                   "ops.decl",
		"https://example.com/a/ops.yaml?v=1": "ops.yaml",
	}
	for in, want := range cases {
		if got := SourceName(in); got != want {
			t.Fatalf("SourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinSeparator(t *testing.T) {
	if got := (RenderOptions{}).JoinSeparator(); got != DefaultSeparator {
		t.Fatalf("separator = %q", got)
	}
	if got := (RenderOptions{Separator: "\n"}).JoinSeparator(); got != "\n" {
		t.Fatalf("separator = %q", got)
	}
}
