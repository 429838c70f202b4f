package decl

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// fileSource identifies on-disk declaration documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("decl: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("decl: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// memorySource carries its payload inline.
type memorySource struct {
	name string
	data []byte
}

func (s memorySource) Location() string {
	return s.name
}

func (s memorySource) Kind() SourceKind {
	return SourceKindMemory
}

// Bytes returns a copy of the inline payload.
func (s memorySource) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// SourceFromBytes wraps an in-memory document. The name drives format
// detection the same way a file extension does.
func SourceFromBytes(name string, data []byte) Source {
	return memorySource{name: name, data: append([]byte(nil), data...)}
}

// BytesSource is implemented by sources that carry their payload inline.
type BytesSource interface {
	Source
	Bytes() []byte
}
