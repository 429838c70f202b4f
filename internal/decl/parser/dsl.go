package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-declgen/internal/scan"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/model"
)

const (
	keywordPackage   = "package"
	keywordImport    = "import"
	keywordDuplicate = "duplicate"
)

// dslParser walks a `.decl` document. Offsets are byte offsets into src and
// are turned into line/column positions only when reported.
type dslParser struct {
	file   string
	src    string
	pos    int
	delims expand.Delimiters

	spec       model.Spec
	names      map[string]struct{}
	hasPackage bool
}

func parseDSL(file, src string, delims expand.Delimiters) (model.Spec, error) {
	p := &dslParser{
		file:   file,
		src:    src,
		delims: delims,
		names:  make(map[string]struct{}),
		spec:   model.Spec{Blocks: []model.Block{}},
	}
	if err := p.parse(); err != nil {
		return model.Spec{}, err
	}
	return p.spec, nil
}

func (p *dslParser) parse() error {
	for {
		p.skipTrivia()
		if p.eof() {
			return nil
		}

		start := p.pos
		word := scan.IdentAt(p.src, p.pos)
		if word == "" {
			r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
			return p.errorf(start, "unexpected %q, expected a keyword", r)
		}
		p.pos += len(word)

		var err error
		switch word {
		case keywordPackage:
			err = p.packageDecl(start)
		case keywordImport:
			err = p.importDecl()
		case keywordDuplicate:
			err = p.block(start)
		default:
			err = p.errorf(start, "unknown keyword %q", word)
		}
		if err != nil {
			return err
		}
	}
}

func (p *dslParser) packageDecl(start int) error {
	if p.hasPackage {
		return p.errorf(start, "package declared twice")
	}
	p.skipTrivia()
	name := scan.IdentAt(p.src, p.pos)
	if name == "" {
		return p.errorf(p.pos, "package name expected")
	}
	p.pos += len(name)
	p.spec.Package = name
	p.hasPackage = true
	return nil
}

func (p *dslParser) importDecl() error {
	p.skipTrivia()
	if p.peek() != '(' {
		path, err := p.importPath()
		if err != nil {
			return err
		}
		p.spec.Imports = append(p.spec.Imports, path)
		return nil
	}

	open := p.pos
	p.pos++
	for {
		p.skipTrivia()
		if p.eof() {
			return p.errorf(open, "unterminated import group")
		}
		if p.peek() == ')' {
			p.pos++
			return nil
		}
		path, err := p.importPath()
		if err != nil {
			return err
		}
		p.spec.Imports = append(p.spec.Imports, path)
	}
}

func (p *dslParser) importPath() (string, error) {
	start := p.pos
	var end int
	switch p.peek() {
	case '"':
		end = p.pos + 1
		for end < len(p.src) && p.src[end] != '"' && p.src[end] != '\n' {
			if p.src[end] == '\\' {
				end++
			}
			end++
		}
	case '`':
		end = p.pos + 1
		for end < len(p.src) && p.src[end] != '`' {
			end++
		}
	default:
		return "", p.errorf(start, "import path must be a quoted string")
	}
	if end >= len(p.src) || p.src[end] != p.src[start] {
		return "", p.errorf(start, "unterminated import path")
	}

	path, err := strconv.Unquote(p.src[start : end+1])
	if err != nil || path == "" {
		return "", p.errorf(start, "invalid import path %s", p.src[start:end+1])
	}
	p.pos = end + 1
	return path, nil
}

// block parses `duplicate [NAME] vars ; { group ; } { body }`.
func (p *dslParser) block(start int) error {
	p.skipTrivia()
	name := scan.IdentAt(p.src, p.pos)
	p.pos += len(name)
	if name == "" {
		name = fmt.Sprintf("block%d", len(p.spec.Blocks)+1)
	}
	if _, exists := p.names[name]; exists {
		return p.errorf(start, "block %q declared twice", name)
	}

	placeholders, err := p.placeholders()
	if err != nil {
		return err
	}

	variants := model.VariantSet{}
	for {
		p.skipTrivia()
		switch p.peek() {
		case '{':
			return p.body(start, name, placeholders, variants)
		case '[':
			groupStart := p.pos
			tokens, err := p.brackets()
			if err != nil {
				return err
			}
			if len(tokens) != len(placeholders) {
				return &SyntaxError{
					Pos: p.position(groupStart),
					Msg: "invalid variant group",
					Err: &expand.ArityError{Template: name, Variant: len(variants), Want: len(placeholders), Got: len(tokens)},
				}
			}
			if err := p.expect(';', "after variant group"); err != nil {
				return err
			}
			variants = append(variants, model.NewVariant(tokens...))
		case 0:
			return p.errorf(start, "unexpected end of input in block %q", name)
		default:
			return p.errorf(p.pos, "expected '[' or '{', found %q", p.peek())
		}
	}
}

func (p *dslParser) placeholders() ([]string, error) {
	p.skipTrivia()
	if p.peek() != '[' {
		return nil, p.errorf(p.pos, "expected '[' to start the placeholder list")
	}

	start := p.pos
	names, err := p.brackets()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !scan.IsIdent(name) {
			return nil, p.errorf(start, "placeholder %q is not an identifier", name)
		}
		if _, dup := seen[name]; dup {
			return nil, p.errorf(start, "placeholder %q declared twice", name)
		}
		seen[name] = struct{}{}
	}

	if err := p.expect(';', "after placeholder list"); err != nil {
		return nil, err
	}
	return names, nil
}

// brackets reads a run of adjacent `[...]` groups and returns their trimmed
// contents. Whitespace between groups is allowed.
func (p *dslParser) brackets() ([]string, error) {
	var out []string
	for {
		end, err := scan.Balanced(p.src, p.pos, '[', ']')
		if err != nil {
			return nil, p.errorf(p.pos, "unbalanced '['")
		}
		out = append(out, strings.TrimSpace(p.src[p.pos+1:end]))
		p.pos = end + 1

		next := p.pos
		for next < len(p.src) && (p.src[next] == ' ' || p.src[next] == '\t') {
			next++
		}
		if next >= len(p.src) || p.src[next] != '[' {
			return out, nil
		}
		p.pos = next
	}
}

func (p *dslParser) body(start int, name string, placeholders []string, variants model.VariantSet) error {
	open := p.pos
	end, err := scan.Balanced(p.src, open, '{', '}')
	if err != nil {
		return p.errorf(open, "unbalanced '{' in body of block %q", name)
	}
	p.pos = end + 1

	tpl, err := expand.Compile(name, scan.Dedent(p.src[open+1:end]), placeholders, expand.WithDelimiters(p.delims))
	if err != nil {
		return &SyntaxError{Pos: p.position(open), Msg: "invalid template body", Err: err}
	}

	p.names[name] = struct{}{}
	p.spec.Blocks = append(p.spec.Blocks, model.Block{
		Name:     name,
		Template: tpl,
		Variants: variants,
		Position: p.position(start),
	})
	return nil
}

func (p *dslParser) expect(c byte, where string) error {
	p.skipTrivia()
	if p.peek() != c {
		return p.errorf(p.pos, "expected %q %s", c, where)
	}
	p.pos++
	return nil
}

// skipTrivia skips whitespace plus `//` and `#` comments.
func (p *dslParser) skipTrivia() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#' || strings.HasPrefix(p.src[p.pos:], "//"):
			idx := strings.IndexByte(p.src[p.pos:], '\n')
			if idx < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += idx + 1
		default:
			return
		}
	}
}

func (p *dslParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *dslParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *dslParser) position(offset int) model.Position {
	if offset > len(p.src) {
		offset = len(p.src)
	}
	before := p.src[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return model.Position{
		File:   p.file,
		Line:   line,
		Column: utf8.RuneCountInString(before[lineStart:]) + 1,
	}
}

func (p *dslParser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Pos: p.position(offset), Msg: fmt.Sprintf(format, args...)}
}
