package render

import (
	"context"

	"github.com/goliatone/go-declgen/pkg/model"
)

// Renderer converts an expanded Result into bytes (Go source, plain text,
// JSON manifests).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, result model.Result, options RenderOptions) ([]byte, error)
}
