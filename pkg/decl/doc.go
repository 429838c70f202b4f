// Package decl exposes the public contracts for the loader and parser stages
// of declgen: where a declaration document comes from (Source), its raw
// payload (Document), and the Loader/Parser interfaces that turn it into a
// model.Spec. Implementations live under internal/decl and are constructed
// through the top-level declgen package.
package decl
