// Package text renders expanded declarations as plain text, one after the
// other. It makes no assumption about the target language, so it suits
// templates that are not Go.
package text

import (
	"context"
	"strings"

	"github.com/goliatone/go-declgen/pkg/model"
	"github.com/goliatone/go-declgen/pkg/render"
)

// Name is the registry key of the text renderer.
const Name = "text"

// Renderer joins declarations with RenderOptions.Separator and ends the output
// with a newline. Headers and package clauses are not emitted.
type Renderer struct{}

var _ render.Renderer = Renderer{}

// New constructs the text renderer.
func New() Renderer {
	return Renderer{}
}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (Renderer) Render(ctx context.Context, result model.Result, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := result.Texts()
	if len(texts) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(texts, options.JoinSeparator()) + "\n"), nil
}
