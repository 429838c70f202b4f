// Package orchestrator wires the load -> parse -> expand -> transform ->
// render pipeline behind a single Generate call, with every stage
// replaceable through options.
package orchestrator
