package expand

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-declgen/internal/scan"
	"github.com/goliatone/go-declgen/pkg/model"
)

// SelectKeyword introduces a select block inside a template body.
const SelectKeyword = "@select"

// Delimiters bracket placeholder references inside a template body.
type Delimiters struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// DefaultDelimiters matches `{NAME}` references.
var DefaultDelimiters = Delimiters{Left: "{", Right: "}"}

// Valid reports whether both delimiters are set.
func (d Delimiters) Valid() bool {
	return d.Left != "" && d.Right != ""
}

// CompileOption customises Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	delims Delimiters
}

// WithDelimiters overrides the placeholder delimiters. Incomplete pairs are
// ignored.
func WithDelimiters(delims Delimiters) CompileOption {
	return func(cfg *compileConfig) {
		if delims.Valid() {
			cfg.delims = delims
		}
	}
}

// Compile turns a template body into segments. A delimited run becomes a
// placeholder only when its trimmed content is one of the declared names, so
// unrelated braces in the body stay literal.
func Compile(name, body string, placeholders []string, options ...CompileOption) (model.Template, error) {
	cfg := compileConfig{delims: DefaultDelimiters}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	index := make(map[string]int, len(placeholders))
	for i, placeholder := range placeholders {
		if !scan.IsIdent(placeholder) {
			return model.Template{}, &CompileError{Template: name, Msg: fmt.Sprintf("placeholder %q is not an identifier", placeholder)}
		}
		if _, exists := index[placeholder]; exists {
			return model.Template{}, &CompileError{Template: name, Msg: fmt.Sprintf("placeholder %q declared twice", placeholder)}
		}
		index[placeholder] = i
	}

	c := &compiler{name: name, delims: cfg.delims, index: index}
	segments, err := c.segments(body, 0)
	if err != nil {
		return model.Template{}, err
	}

	return model.Template{
		Name:         name,
		Placeholders: append([]string(nil), placeholders...),
		Segments:     segments,
		Body:         body,
	}, nil
}

// MustCompile panics when Compile fails. Intended for fixtures.
func MustCompile(name, body string, placeholders []string, options ...CompileOption) model.Template {
	tpl, err := Compile(name, body, placeholders, options...)
	if err != nil {
		panic(err)
	}
	return tpl
}

type compiler struct {
	name   string
	delims Delimiters
	index  map[string]int
}

// segments compiles src; base is the offset of src inside the original body
// and only feeds error positions.
func (c *compiler) segments(src string, base int) ([]model.Segment, error) {
	var (
		out     []model.Segment
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		out = append(out, model.Segment{Kind: model.SegmentLiteral, Text: literal.String()})
		literal.Reset()
	}

	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], SelectKeyword) && c.selectFollows(src, i) {
			seg, next, err := c.selectBlock(src, i, base)
			if err != nil {
				return nil, err
			}
			flush()
			out = append(out, seg)
			i = next
			continue
		}

		if strings.HasPrefix(src[i:], c.delims.Left) {
			start := i + len(c.delims.Left)
			if end := strings.Index(src[start:], c.delims.Right); end >= 0 {
				name := strings.TrimSpace(src[start : start+end])
				if idx, ok := c.index[name]; ok {
					flush()
					out = append(out, model.Segment{Kind: model.SegmentPlaceholder, Name: name, Index: idx})
					i = start + end + len(c.delims.Right)
					continue
				}
			}
			literal.WriteString(c.delims.Left)
			i = start
			continue
		}

		literal.WriteByte(src[i])
		i++
	}
	flush()
	return out, nil
}

func (c *compiler) selectFollows(src string, pos int) bool {
	rest := strings.TrimLeft(src[pos+len(SelectKeyword):], " \t")
	return strings.HasPrefix(rest, "(")
}

// selectBlock parses `@select(arm, arm, ...)` starting at pos and returns the
// segment plus the offset just past the closing parenthesis.
func (c *compiler) selectBlock(src string, pos, base int) (model.Segment, int, error) {
	open := pos + len(SelectKeyword)
	for src[open] != '(' {
		open++
	}
	end, err := scan.Balanced(src, open, '(', ')')
	if err != nil {
		return model.Segment{}, 0, c.errorf(base+pos, "select: %v", err)
	}

	seg := model.Segment{Kind: model.SegmentSelect}
	inner := src[open+1 : end]
	innerBase := base + open + 1
	for i := skipSpace(inner, 0); i < len(inner); i = skipSpace(inner, i) {
		arm, next, err := c.selectArm(inner, i, innerBase)
		if err != nil {
			return model.Segment{}, 0, err
		}
		seg.Arms = append(seg.Arms, arm)

		next = skipSpace(inner, next)
		if next < len(inner) {
			if inner[next] != ',' {
				return model.Segment{}, 0, c.errorf(innerBase+next, "select: expected ',' between arms, found %q", inner[next])
			}
			next++
		}
		i = next
	}
	if len(seg.Arms) == 0 {
		return model.Segment{}, 0, c.errorf(base+pos, "select: at least one arm is required")
	}
	return seg, end + 1, nil
}

func (c *compiler) selectArm(src string, pos, base int) (model.SelectArm, int, error) {
	var arm model.SelectArm
	i := pos
	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return arm, 0, c.errorf(base+i, "select: unexpected end of arm")
		}
		switch src[i] {
		case '_':
			arm.Wildcard = true
			i++
		case '[':
			end, err := scan.Balanced(src, i, '[', ']')
			if err != nil {
				return arm, 0, c.errorf(base+i, "select: %v", err)
			}
			arm.Patterns = append(arm.Patterns, scan.NormalizeToken(src[i+1:end]))
			i = end + 1
		default:
			return arm, 0, c.errorf(base+i, "select: expected '[' or '_', found %q", src[i])
		}

		i = skipSpace(src, i)
		if i < len(src) && src[i] == '|' {
			i++
			continue
		}
		if i < len(src) && src[i] == ':' {
			i++
			break
		}
		return arm, 0, c.errorf(base+i, "select: expected '|' or ':' after pattern")
	}

	i = skipSpace(src, i)
	if i >= len(src) || src[i] != '{' {
		return arm, 0, c.errorf(base+i, "select: arm body must be wrapped in braces")
	}
	end, err := scan.Balanced(src, i, '{', '}')
	if err != nil {
		return arm, 0, c.errorf(base+i, "select: %v", err)
	}
	body, err := c.segments(src[i+1:end], base+i+1)
	if err != nil {
		return arm, 0, err
	}
	arm.Body = body
	return arm, end + 1, nil
}

func (c *compiler) errorf(offset int, format string, args ...any) error {
	return &CompileError{Template: c.name, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func skipSpace(src string, pos int) int {
	for pos < len(src) {
		switch src[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}
