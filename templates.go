package declgen

import (
	"io/fs"

	"github.com/goliatone/go-declgen/pkg/renderers/gosource"
)

// EmbeddedTemplates exposes the built-in Go file skeleton so callers can copy
// or extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return gosource.TemplatesFS()
}
