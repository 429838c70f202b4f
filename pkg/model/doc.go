// Package model defines the values that flow through the declgen pipeline: a
// compiled Template (literal, placeholder and select segments), the ordered
// VariantSet that fills it, the Block pairing the two, and the Declarations
// produced by expansion. Parsers return a Spec, the expander turns it into a
// Result, and renderers consume the Result without reaching back into the
// source document.
package model
