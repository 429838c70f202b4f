package manifest_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/render"
	"github.com/goliatone/go-declgen/pkg/renderers/manifest"
	"github.com/goliatone/go-declgen/pkg/testsupport"
)

func valuesResult(t *testing.T) model.Result {
	t.Helper()
	return testsupport.MustExpand(t, model.Spec{
		Source:  "/work/gen/values.decl",
		Package: "shapes",
		Blocks: []model.Block{{
			Name:     "values",
			Template: expand.MustCompile("values", "struct {NAME} { value: {TYPE} }", []string{"NAME", "TYPE"}),
			Variants: model.VariantSet{model.NewVariant("Foo", "i32"), model.NewVariant("Bar", "String")},
			Position: model.Position{File: "/work/gen/values.decl", Line: 3, Column: 1},
		}},
	})
}

func TestRenderer_Golden(t *testing.T) {
	output, err := manifest.New().Render(context.Background(), valuesResult(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "values.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, output) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := cmp.Diff(want, string(output)); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}

	var decoded manifest.Document
	if err := json.Unmarshal(output, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if diff := cmp.Diff(manifest.Build(valuesResult(t), render.RenderOptions{}), decoded); diff != "" {
		t.Fatalf("decoded manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_WithoutPackage(t *testing.T) {
	result := valuesResult(t)
	result.Package = ""

	doc := manifest.Build(result, render.RenderOptions{Generator: "tool"})
	if doc.Package != "" || doc.Generator != "tool" {
		t.Fatalf("unexpected header fields: %+v", doc)
	}
	if len(doc.Blocks) != 1 || len(doc.Blocks[0].Declarations) != 2 {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}
