package gfxtest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kjkrol/glscene/pkg/gfx"
)

// CheckGLSL is a rough stand-in for a GLSL front end. It accepts sources
// that start with a #version directive, declare main and have balanced
// braces. Inside a block, a statement must end with a semicolon before a
// closing brace, and a line ending in an operand may not be followed by a
// line that starts with an identifier unless it opens a control statement.
// Failures are reported in the "line(column): error: ..." form drivers use.
func CheckGLSL(stage gfx.ShaderStage, source string) (string, bool) {
	src := stripComments(source)
	if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return "0:1(1): error: missing #version directive", false
	}
	if !strings.Contains(src, "void main") {
		return fmt.Sprintf("0:1(1): error: %s shader does not define main", stage), false
	}

	depth := 0
	line, col := 1, 0
	var last rune
	lastLine, lastCol := 1, 0
	for _, r := range src {
		col++
		switch r {
		case '\n':
			line++
			col = 0
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '}'", line, col), false
			}
			if last != 0 && last != ';' && last != '{' && last != '}' {
				return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '}', expecting ',' or ';' after '%c'", lastLine, lastCol+1, last), false
			}
		}
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		last = r
		lastLine, lastCol = line, col
	}
	if depth != 0 {
		return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected end of file", line, col), false
	}
	if line, col, found := missingSemicolon(src); found {
		return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected IDENTIFIER, expecting ',' or ';'", line, col), false
	}
	return "", true
}

var controlWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true,
}

func missingSemicolon(src string) (line, col int, found bool) {
	lines := strings.Split(src, "\n")
	depth := 0
	for i, l := range lines {
		depth += strings.Count(l, "{") - strings.Count(l, "}")
		t := strings.TrimSpace(l)
		if depth <= 0 || t == "" || strings.HasPrefix(t, "#") || !endsOperand(t) {
			continue
		}
		if controlWords[firstWord(strings.TrimLeft(t, "} \t"))] {
			continue
		}
		next := ""
		for _, n := range lines[i+1:] {
			if next = strings.TrimSpace(n); next != "" {
				break
			}
		}
		if next == "" || !isIdent(rune(next[0])) || unicode.IsDigit(rune(next[0])) {
			continue
		}
		return i + 1, len(strings.TrimRight(l, " \t\r")) + 1, true
	}
	return 0, 0, false
}

func endsOperand(t string) bool {
	r := rune(t[len(t)-1])
	return isIdent(r) || r == ')' || r == ']'
}

func firstWord(t string) string {
	end := strings.IndexFunc(t, func(r rune) bool { return !isIdent(r) })
	if end < 0 {
		return t
	}
	return t[:end]
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func stripComments(src string) string {
	var sb strings.Builder
	for i := 0; i < len(src); i++ {
		if strings.HasPrefix(src[i:], "//") {
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				break
			}
			i += end - 1
			continue
		}
		if strings.HasPrefix(src[i:], "/*") {
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				break
			}
			// keep line numbers stable
			sb.WriteString(strings.Repeat("\n", strings.Count(src[i:i+2+end], "\n")))
			i += end + 3
			continue
		}
		sb.WriteByte(src[i])
	}
	return sb.String()
}
