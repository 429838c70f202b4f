// Package template defines the engine-agnostic contract renderers use to
// execute templates. Adapters live in subpackages.
package template
