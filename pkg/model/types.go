package model

import (
	"fmt"
	"strings"
)

// SegmentKind enumerates the skeleton elements a Template is made of.
type SegmentKind string

const (
	SegmentLiteral     SegmentKind = "literal"
	SegmentPlaceholder SegmentKind = "placeholder"
	SegmentSelect      SegmentKind = "select"
)

// Segment is one element of a compiled template body. Literal segments carry
// Text verbatim; placeholder segments carry the placeholder Name and its
// position in Template.Placeholders; select segments carry their arms.
type Segment struct {
	Kind  SegmentKind `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Name  string      `json:"name,omitempty"`
	Index int         `json:"index,omitempty"`
	Arms  []SelectArm `json:"arms,omitempty"`
}

// SelectArm keeps Body for variants matching any of Patterns. A wildcard arm
// matches every variant.
type SelectArm struct {
	Patterns []string  `json:"patterns,omitempty"`
	Wildcard bool      `json:"wildcard,omitempty"`
	Body     []Segment `json:"body,omitempty"`
}

// Matches reports whether the arm applies to the variant.
func (a SelectArm) Matches(v Variant) bool {
	if a.Wildcard {
		return true
	}
	for _, pattern := range a.Patterns {
		if v.Has(pattern) {
			return true
		}
	}
	return false
}

// Template is the shared skeleton of a block.
type Template struct {
	Name         string    `json:"name"`
	Placeholders []string  `json:"placeholders"`
	Segments     []Segment `json:"segments"`
	// Body keeps the uncompiled source so documents can be re-emitted.
	Body string `json:"body"`
}

// Arity returns the number of tokens every variant must supply.
func (t Template) Arity() int {
	return len(t.Placeholders)
}

// Variant is one substitution group. Token i fills placeholder i.
type Variant struct {
	Tokens []string `json:"tokens"`
}

// NewVariant copies the supplied tokens into a Variant.
func NewVariant(tokens ...string) Variant {
	return Variant{Tokens: append([]string(nil), tokens...)}
}

// Arity returns the number of tokens in the variant.
func (v Variant) Arity() int {
	return len(v.Tokens)
}

// Has reports whether any token equals tok once whitespace is normalised.
func (v Variant) Has(tok string) bool {
	want := normalize(tok)
	for _, candidate := range v.Tokens {
		if normalize(candidate) == want {
			return true
		}
	}
	return false
}

// Bindings pairs placeholder names with the variant's tokens. Extra names or
// tokens are ignored.
func (v Variant) Bindings(placeholders []string) map[string]string {
	out := make(map[string]string, len(placeholders))
	for i, name := range placeholders {
		if i >= len(v.Tokens) {
			break
		}
		out[name] = v.Tokens[i]
	}
	return out
}

// String renders the variant the way it is written in the DSL.
func (v Variant) String() string {
	var b strings.Builder
	for _, tok := range v.Tokens {
		b.WriteByte('[')
		b.WriteString(tok)
		b.WriteByte(']')
	}
	return b.String()
}

// VariantSet is ordered; insertion order is emission order.
type VariantSet []Variant

// Clone returns a deep copy of the set.
func (s VariantSet) Clone() VariantSet {
	if s == nil {
		return nil
	}
	out := make(VariantSet, len(s))
	for i, v := range s {
		out[i] = NewVariant(v.Tokens...)
	}
	return out
}

// Position locates a construct inside a source document.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (p Position) String() string {
	switch {
	case p.Line == 0:
		return p.File
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Block pairs one Template with the VariantSet expanded against it.
type Block struct {
	Name     string     `json:"name"`
	Template Template   `json:"template"`
	Variants VariantSet `json:"variants"`
	Position Position   `json:"position"`
}

// Spec is a parsed declaration document.
type Spec struct {
	Source  string   `json:"source"`
	Package string   `json:"package,omitempty"`
	Imports []string `json:"imports,omitempty"`
	Blocks  []Block  `json:"blocks"`
}

// Block returns the named block.
func (s Spec) Block(name string) (Block, bool) {
	for _, block := range s.Blocks {
		if block.Name == name {
			return block, true
		}
	}
	return Block{}, false
}

// Declaration is the output of expanding one variant.
type Declaration struct {
	Block    string            `json:"block"`
	Index    int               `json:"index"`
	Variant  Variant           `json:"variant"`
	Bindings map[string]string `json:"bindings"`
	Text     string            `json:"text"`
}

// Expansion groups the declarations produced for a single block.
type Expansion struct {
	Block        Block         `json:"block"`
	Declarations []Declaration `json:"declarations"`
}

// Result is the expanded form of a Spec, ready for rendering.
type Result struct {
	Source     string      `json:"source"`
	Package    string      `json:"package,omitempty"`
	Imports    []string    `json:"imports,omitempty"`
	Expansions []Expansion `json:"expansions"`
}

// Declarations flattens every expansion in block order.
func (r Result) Declarations() []Declaration {
	var out []Declaration
	for _, exp := range r.Expansions {
		out = append(out, exp.Declarations...)
	}
	return out
}

// Texts returns the declaration texts in emission order.
func (r Result) Texts() []string {
	decls := r.Declarations()
	out := make([]string, 0, len(decls))
	for _, decl := range decls {
		out = append(out, decl.Text)
	}
	return out
}

func normalize(tok string) string {
	return strings.Join(strings.Fields(tok), " ")
}
