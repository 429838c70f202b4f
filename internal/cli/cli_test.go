package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-declgen/pkg/config"
)

const shapesDoc = `package shapes

duplicate values [NAME][TYPE];
	[Foo][int32];
	[Bar][string];
{
	type {NAME} struct { Value {TYPE} }
}
`

const brokenDoc = `duplicate [A][B];
	[only];
{
	{A}{B}
}
`

func testConfig(renderer string) config.Config {
	return config.Config{
		Renderer:   renderer,
		Suffix:     "_gen",
		Jobs:       2,
		Header:     true,
		Gofmt:      true,
		Delimiters: config.Delimiters{Left: "{", Right: "}"},
		Log:        config.Log{Level: "disabled", Format: "console"},
	}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		input, dir, suffix, renderer, want string
	}{
		{input: "a/shapes.decl", suffix: "_gen", renderer: "go", want: filepath.Join("a", "shapes_gen.go")},
		{input: "a/shapes.yaml", dir: "out", suffix: "_gen", renderer: "manifest", want: filepath.Join("out", "shapes_gen.json")},
		{input: "shapes.decl", suffix: "", renderer: "text", want: "shapes.txt"},
		{input: "https://example.com/docs/ops.decl", suffix: "_gen", renderer: "go", want: "ops_gen.go"},
		{input: "https://example.com", dir: "out", suffix: "_gen", renderer: "go", want: filepath.Join("out", "document_gen.go")},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, outputPath(tc.input, tc.dir, tc.suffix, tc.renderer), tc.input)
	}
}

func TestDefaultPackage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widgets")
	assert.Equal(t, "widgets", defaultPackage(filepath.Join(dir, "a.decl")))
	assert.Equal(t, "main", defaultPackage(filepath.Join(t.TempDir(), "not-ident", "a.decl")))
	assert.Equal(t, "main", defaultPackage("https://example.com/a.decl"))
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	b := writeDoc(t, dir, "b.decl", shapesDoc)
	a := writeDoc(t, dir, "nested/a.decl", shapesDoc)
	writeDoc(t, dir, ".hidden/c.decl", shapesDoc)
	writeDoc(t, dir, "notes.txt", "x")
	yaml := writeDoc(t, t.TempDir(), "doc.yaml", "declarations: []\n")

	got, err := collectInputs([]string{dir, yaml, "https://example.com/x.decl"})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, yaml, "https://example.com/x.decl"}, got)

	_, err = collectInputs([]string{t.TempDir()})
	assert.Error(t, err)
	_, err = collectInputs([]string{filepath.Join(dir, "missing.decl")})
	assert.Error(t, err)
}

func TestExpandAllWritesFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeDoc(t, dir, "shapes.decl", shapesDoc)
	second := writeDoc(t, dir, "more/extra.decl", shapesDoc)

	p, err := newPipeline(testConfig("go"), pipelineOptions{imports: []string{"fmt"}})
	require.NoError(t, err)

	written, err := p.expandAll(context.Background(), []string{first, second}, target{}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "shapes_gen.go"),
		filepath.Join(dir, "more", "extra_gen.go"),
	}, written)

	out, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), "// Code generated by declgen")
	assert.Contains(t, string(out), "package shapes")
	assert.Contains(t, string(out), `"fmt"`)
	assert.Contains(t, string(out), "type Foo struct")
	assert.Contains(t, string(out), "type Bar struct")
}

func TestExpandAllStdoutKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.decl", "b.decl", "c.decl"} {
		inputs = append(inputs, writeDoc(t, dir, name, shapesDoc))
	}

	p, err := newPipeline(testConfig("text"), pipelineOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	written, err := p.expandAll(context.Background(), inputs, target{stdout: true, blocks: []string{"values"}}, &buf)
	require.NoError(t, err)
	assert.Nil(t, written)

	one := "type Foo struct { Value int32 }\n\ntype Bar struct { Value string }\n"
	assert.Equal(t, one+one+one, buf.String())
}

func TestExpandAllReportsFailingInput(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.decl", shapesDoc)
	bad := writeDoc(t, dir, "bad.decl", brokenDoc)

	p, err := newPipeline(testConfig("go"), pipelineOptions{})
	require.NoError(t, err)

	_, err = p.expandAll(context.Background(), []string{good, bad}, target{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	_, statErr := os.Stat(filepath.Join(dir, "bad_gen.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExpandExistingLogsFailures(t *testing.T) {
	p, err := newPipeline(testConfig("text"), pipelineOptions{})
	require.NoError(t, err)

	t.Run("empty directory", func(t *testing.T) {
		var logs bytes.Buffer
		dir := t.TempDir()
		p.expandExisting(context.Background(), dir, target{stdout: true}, io.Discard, zerolog.New(&logs))

		assert.Contains(t, logs.String(), "initial expansion skipped")
		assert.Contains(t, logs.String(), "no declaration documents found")
		assert.Contains(t, logs.String(), `"level":"error"`)
	})

	t.Run("broken document", func(t *testing.T) {
		var logs bytes.Buffer
		dir := t.TempDir()
		writeDoc(t, dir, "broken.decl", brokenDoc)
		p.expandExisting(context.Background(), dir, target{stdout: true}, io.Discard, zerolog.New(&logs))

		assert.Contains(t, logs.String(), "initial expansion failed")
	})

	t.Run("valid documents", func(t *testing.T) {
		var logs, out bytes.Buffer
		dir := t.TempDir()
		writeDoc(t, dir, "shapes.decl", shapesDoc)
		p.expandExisting(context.Background(), dir, target{stdout: true}, &out, zerolog.New(&logs))

		assert.Empty(t, logs.String())
		assert.Contains(t, out.String(), "type Foo struct")
	})
}

func TestCheckAll(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.decl", shapesDoc)
	bad := writeDoc(t, dir, "bad.decl", brokenDoc)

	p, err := newPipeline(testConfig("go"), pipelineOptions{})
	require.NoError(t, err)

	reports := p.checkAll(context.Background(), []string{good, bad})
	require.Len(t, reports, 2)
	assert.Equal(t, good, reports[0].Input)
	assert.NoError(t, reports[0].Err)
	assert.Equal(t, 2, reports[0].Declarations)
	assert.Equal(t, bad, reports[1].Input)
	assert.Error(t, reports[1].Err)
}

func TestPresetAppliesToResults(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "shapes.decl", shapesDoc)
	preset := writeDoc(t, dir, "preset.yaml", "package: renamed\nimports: [strings]\n")

	p, err := newPipeline(testConfig("go"), pipelineOptions{preset: preset})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = p.expandAll(context.Background(), []string{input}, target{stdout: true}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "package renamed")
	assert.Contains(t, buf.String(), `"strings"`)

	_, err = newPipeline(testConfig("go"), pipelineOptions{preset: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	input := writeDoc(t, t.TempDir(), "shapes.decl", shapesDoc)
	p, err := newPipeline(testConfig("go"), pipelineOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.inspect(context.Background(), input, true, &buf))
	out := buf.String()
	assert.Contains(t, out, "PLACEHOLDERS")
	assert.Contains(t, out, "values")
	assert.Contains(t, out, "NAME, TYPE")
	assert.Contains(t, out, "NAME=Foo TYPE=int32")
	assert.Contains(t, out, "NAME=Bar TYPE=string")
}

func TestExecuteCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	input := writeDoc(t, dir, "shapes.decl", shapesDoc)
	bad := writeDoc(t, dir, "broken/bad.decl", brokenDoc)

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		rootCmd.SetArgs(args)
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		err := Execute(context.Background())
		return buf.String(), err
	}

	out, err := run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "declgen ")

	out, err = run("check", "--log-level", "disabled", input)
	require.NoError(t, err)
	assert.Contains(t, out, input+": ok (2 declarations)")

	out, err = run("check", "--log-level", "disabled", bad)
	require.Error(t, err)
	assert.Contains(t, out, bad+": ")
	assert.Contains(t, err.Error(), "1 of 1 documents failed")

	out, err = run("expand", "--log-level", "disabled", input)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(dir, "shapes_gen.go"))
	_, err = os.Stat(filepath.Join(dir, "shapes_gen.go"))
	require.NoError(t, err)
}
