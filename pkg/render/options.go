package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-declgen/pkg/model"
)

// DefaultGenerator is the tool name written into generated file headers.
const DefaultGenerator = "declgen"

// DefaultSeparator sits between declarations in text output.
const DefaultSeparator = "\n\n"

// RenderOptions describe per-request settings that renderers use to shape
// their output without touching the expanded result.
type RenderOptions struct {
	// Package overrides the package clause declared by the document.
	Package string
	// DefaultPackage applies when neither Package nor the document names one.
	DefaultPackage string
	// Generator names the tool in the generated-code header. Defaults to
	// DefaultGenerator.
	Generator string
	// SkipHeader omits the `// Code generated ... DO NOT EDIT.` line.
	SkipHeader bool
	// SkipFormat leaves Go output as rendered instead of running gofmt on it.
	// Useful when declarations are not Go.
	SkipFormat bool
	// Separator joins declarations in text output. Defaults to a blank line.
	Separator string
}

// ErrNoPackage is returned by renderers that need a package clause when none
// can be resolved.
var ErrNoPackage = errors.New("render: package name is required")

// ResolvePackage picks the package clause: explicit override, then the
// document's own package, then the configured default.
func ResolvePackage(result model.Result, options RenderOptions) (string, error) {
	for _, candidate := range []string{options.Package, result.Package, options.DefaultPackage} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate, nil
		}
	}
	return "", ErrNoPackage
}

// Header returns the generated-code marker line recognised by Go tooling.
func Header(result model.Result, options RenderOptions) string {
	generator := strings.TrimSpace(options.Generator)
	if generator == "" {
		generator = DefaultGenerator
	}
	if name := SourceName(result.Source); name != "" {
		return fmt.Sprintf("// Code generated by %s from %s. DO NOT EDIT.", generator, name)
	}
	return fmt.Sprintf("// Code generated by %s. DO NOT EDIT.", generator)
}

// SourceName reduces a document location to its last path element so
// generated output does not depend on where the generator ran.
func SourceName(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	if idx := strings.IndexAny(location, "?#"); idx >= 0 {
		location = location[:idx]
	}
	location = strings.TrimRight(strings.ReplaceAll(location, "\\", "/"), "/")
	if location == "" {
		return ""
	}
	return path.Base(location)
}

// JoinSeparator returns the configured separator or DefaultSeparator.
func (o RenderOptions) JoinSeparator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}
