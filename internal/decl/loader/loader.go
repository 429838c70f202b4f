package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-declgen/pkg/decl"
)

// Loader implements decl.Loader by delegating to file, fs.FS, HTTP or memory
// strategies. Construction helpers live in the top-level declgen package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ decl.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options decl.LoaderOptions) decl.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src decl.Source) (decl.Document, error) {
	if src == nil {
		return decl.Document{}, errors.New("decl loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case decl.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case decl.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case decl.SourceKindURL:
		if !l.allowHTTP {
			return decl.Document{}, decl.ErrHTTPDisabled
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case decl.SourceKindMemory:
		inline, ok := src.(decl.BytesSource)
		if !ok {
			return decl.Document{}, fmt.Errorf("decl loader: memory source %q carries no payload", src.Location())
		}
		data = inline.Bytes()
	default:
		err = fmt.Errorf("decl loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return decl.Document{}, err
	}

	return decl.NewDocument(src, data)
}
