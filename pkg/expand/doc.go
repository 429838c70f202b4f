// Package expand implements the template expander: Compile turns a body with
// placeholders and select blocks into a model.Template, and Expander.Expand
// substitutes each variant of an ordered set into it, producing one
// declaration per variant in input order.
//
// Placeholders are written between delimiters (`{NAME}` by default). Select
// blocks keep a fragment only for matching variants:
//
//	@select([fn_mut] | [fn_ref]: { &T }, _: { T })
//
// A pattern matches when it equals any token of the variant; `_` matches all
// variants and the first matching arm wins.
//
// Bodies are scanned as plain text. Placeholders and select blocks are
// recognised inside comments and string literals as well, so
//
//	return "{NAME} is @select([mut]: {mutable}, _: {shared})"
//
// yields a different string per variant. The scanner only skips literals
// while matching the brackets of a select block.
package expand
