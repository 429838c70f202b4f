// Package scan holds the low-level text helpers shared by the body compiler
// and the declaration parser.
package scan

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Balanced returns the index of the close byte matching the open byte found
// at src[start]. Go string, rune and raw literals as well as line and block
// comments are skipped so braces inside them do not count.
func Balanced(src string, start int, open, close byte) (int, error) {
	if start < 0 || start >= len(src) || src[start] != open {
		return -1, fmt.Errorf("expected %q", open)
	}

	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '"':
			if end, ok := skipQuoted(src, i, c); ok {
				i = end
			}
		case '\'':
			if end, ok := skipRune(src, i); ok {
				i = end
			}
		case '`':
			if end := strings.IndexByte(src[i+1:], '`'); end >= 0 {
				i += end + 1
			}
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				end := strings.IndexByte(src[i:], '\n')
				if end < 0 {
					i = len(src) - 1
					continue
				}
				i += end
			} else if i+1 < len(src) && src[i+1] == '*' {
				if end := strings.Index(src[i+2:], "*/"); end >= 0 {
					i += end + 3
				}
			}
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unbalanced %q opened at offset %d", open, start)
}

// skipRune reports the closing quote of a rune literal starting at
// src[start]. Anything other than one rune or one escape sequence followed by
// a quote is plain text, so lifetimes such as 'a do not open a literal.
func skipRune(src string, start int) (int, bool) {
	i := start + 1
	if i >= len(src) {
		return -1, false
	}
	if src[i] == '\\' {
		n := escapeLen(src[i+1:])
		if n == 0 {
			return -1, false
		}
		i += 1 + n
	} else {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '\'' || r == '\n' || r == utf8.RuneError && size <= 1 {
			return -1, false
		}
		i += size
	}
	if i < len(src) && src[i] == '\'' {
		return i, true
	}
	return -1, false
}

// escapeLen returns the length of the escape body that follows a backslash,
// or 0 when it is not a valid rune escape.
func escapeLen(s string) int {
	if s == "" {
		return 0
	}
	digits := func(n int, ok func(byte) bool) int {
		if len(s) < n+1 {
			return 0
		}
		for j := 1; j <= n; j++ {
			if !ok(s[j]) {
				return 0
			}
		}
		return n + 1
	}
	switch s[0] {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '\'':
		return 1
	case 'x':
		return digits(2, isHex)
	case 'u':
		return digits(4, isHex)
	case 'U':
		return digits(8, isHex)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if len(s) >= 3 && isOctal(s[1]) && isOctal(s[2]) {
			return 3
		}
	}
	return 0
}

func isHex(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

func isOctal(b byte) bool { return '0' <= b && b <= '7' }

// skipQuoted reports the closing quote of a literal. Quotes left open at the
// end of the line are treated as plain text so prose bodies still scan.
func skipQuoted(src string, start int, quote byte) (int, bool) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i, true
		case '\n':
			return -1, false
		}
	}
	return -1, false
}

// IsIdent reports whether s is a Go-style identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IdentAt returns the identifier starting at src[pos], or "" when none does.
func IdentAt(src string, pos int) string {
	end := pos
	for end < len(src) {
		r, size := utf8.DecodeRuneInString(src[end:])
		if r == '_' || unicode.IsLetter(r) || (end > pos && unicode.IsDigit(r)) {
			end += size
			continue
		}
		break
	}
	return src[pos:end]
}

// NormalizeToken collapses internal whitespace so `& mut` and `&  mut`
// compare equal.
func NormalizeToken(tok string) string {
	return strings.Join(strings.Fields(tok), " ")
}

// Dedent strips the leading newline, trailing whitespace and the indentation
// shared by every non-blank line.
func Dedent(body string) string {
	body = strings.TrimRight(body, " \t\r\n")
	for {
		idx := strings.IndexByte(body, '\n')
		if idx < 0 || strings.TrimSpace(body[:idx]) != "" {
			break
		}
		body = body[idx+1:]
	}
	if body == "" {
		return ""
	}

	lines := strings.Split(body, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}
	if prefix == "" {
		return body
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
