package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-declgen/pkg/decl"
)

const sample = "duplicate [A]; [x]; { var {A} int }\n"

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.decl")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(decl.NewLoaderOptions()).Load(context.Background(), decl.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != sample {
		t.Fatalf("raw = %q, want %q", doc.Raw(), sample)
	}
	if doc.Location() != path {
		t.Fatalf("location = %q, want %q", doc.Location(), path)
	}
}

func TestLoader_FileMissing(t *testing.T) {
	_, err := New(decl.NewLoaderOptions()).Load(context.Background(), decl.SourceFromFile(filepath.Join(t.TempDir(), "missing.decl")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"decls/sample.decl": {Data: []byte(sample)}}

	doc, err := New(decl.NewLoaderOptions(decl.WithFileSystem(files))).
		Load(context.Background(), decl.SourceFromFS("decls/sample.decl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != sample {
		t.Fatalf("raw = %q", doc.Raw())
	}
}

func TestLoader_FSNotConfigured(t *testing.T) {
	if _, err := New(decl.NewLoaderOptions()).Load(context.Background(), decl.SourceFromFS("x.decl")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoader_Memory(t *testing.T) {
	doc, err := New(decl.NewLoaderOptions()).Load(context.Background(), decl.SourceFromBytes("inline.decl", []byte(sample)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name() != "inline.decl" {
		t.Fatalf("name = %q", doc.Name())
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	_, err := New(decl.NewLoaderOptions()).Load(context.Background(), decl.SourceFromURL("http://127.0.0.1/x.decl"))
	if !errors.Is(err, decl.ErrHTTPDisabled) {
		t.Fatalf("expected ErrHTTPDisabled, got %v", err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sample.decl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer server.Close()

	loader := New(decl.NewLoaderOptions(decl.WithHTTPFallback(2 * time.Second)))

	doc, err := loader.Load(context.Background(), decl.SourceFromURL(server.URL+"/sample.decl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != sample {
		t.Fatalf("raw = %q", doc.Raw())
	}

	if _, err := loader.Load(context.Background(), decl.SourceFromURL(server.URL+"/missing.decl")); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoader_HTTPClientTimeoutApplied(t *testing.T) {
	l := New(decl.NewLoaderOptions(
		decl.WithHTTPClient(&http.Client{}),
		decl.WithHTTPFallback(3*time.Second),
	)).(*Loader)

	if l.http.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", l.http.Timeout)
	}
	if !l.allowHTTP {
		t.Fatalf("expected http to be enabled")
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "sample.decl")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := New(decl.NewLoaderOptions()).Load(ctx, decl.SourceFromFile(path)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_NilSource(t *testing.T) {
	if _, err := New(decl.NewLoaderOptions()).Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
