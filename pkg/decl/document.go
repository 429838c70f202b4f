package decl

import (
	"errors"
	"path"
	"strings"
)

// Source identifies where a declaration document originated so loaders can
// operate on files, fs.FS entries, URLs or inline bytes alike.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindMemory SourceKind = "memory"
)

// Document wraps the raw declaration payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("decl: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("decl: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Name returns the last path element of the location, which is what generated
// file headers mention.
func (d Document) Name() string {
	loc := d.Location()
	if loc == "" {
		return ""
	}
	if d.source.Kind() == SourceKindURL {
		loc = strings.TrimRight(loc, "/")
		if idx := strings.IndexAny(loc, "?#"); idx >= 0 {
			loc = loc[:idx]
		}
	}
	return path.Base(strings.ReplaceAll(loc, "\\", "/"))
}
