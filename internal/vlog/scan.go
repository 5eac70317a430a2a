// Package vlog contains the Verilog/SystemVerilog front end: the
// lexical scanner, the module-header parser and the bit-width
// normalizer. Only the module header is understood; module bodies are
// scanned just far enough to resolve non-ANSI port declarations.
package vlog

import (
	"sort"
	"strings"
)

// Token is one lexical element with its position in the scanned text.
type Token struct {
	Text string
	Pos  Pos
}

// ScanResult is the flat token stream for one module, split at the
// header-terminating semicolon, plus the macros captured along the
// way.
type ScanResult struct {
	// Header runs from the module keyword through the semicolon that
	// closes the header.
	Header []Token
	// Body holds the tokens between the header and endmodule (or end
	// of input). The parser scans it for non-ANSI port declarations.
	Body []Token
	// Macros are the raw `define name/body pairs found in the source.
	Macros map[string]string
}

// Scan strips comments, captures and applies `define macros, and
// tokenizes the first module found in src.
func Scan(src []byte) (*ScanResult, error) {
	clean := stripComments(src)
	macros := captureMacros(clean)
	expanded := applyMacros(clean, macros)

	s := &scanner{src: expanded, line: 1, col: 1}
	var tokens []Token
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	start := -1
	for i, tok := range tokens {
		if tok.Text == "module" || tok.Text == "macromodule" {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &SyntaxError{Msg: "no module declaration found"}
	}

	depth := 0
	end := -1
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth < 0 {
				return nil, &SyntaxError{Msg: "unbalanced " + tokens[i].Text + " in module header", Pos: tokens[i].Pos}
			}
		case ";":
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, &SyntaxError{Msg: "unterminated module header", Pos: tokens[start].Pos}
	}

	body := tokens[end+1:]
	for i, tok := range body {
		if tok.Text == "endmodule" {
			body = body[:i]
			break
		}
	}

	return &ScanResult{
		Header: tokens[start : end+1],
		Body:   body,
		Macros: macros,
	}, nil
}

// stripComments blanks // and /* */ comments with spaces so token
// positions stay aligned with the original text. Newlines inside
// block comments are kept.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for i := 0; i < len(out); i++ {
		if out[i] != '/' || i+1 >= len(out) {
			continue
		}
		switch out[i+1] {
		case '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for i < len(out) {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
		}
	}
	return out
}

// captureMacros records `define name/body pairs and blanks their
// lines; the header parser treats macro lines as comment-equivalent.
func captureMacros(src []byte) map[string]string {
	macros := make(map[string]string)
	lines := splitLinesInPlace(src)
	for _, line := range lines {
		text := string(line)
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, "`define") {
			continue
		}
		rest := strings.TrimSpace(trimmed[len("`define"):])
		name := rest
		body := ""
		for i := 0; i < len(rest); i++ {
			if rest[i] == ' ' || rest[i] == '\t' {
				name = rest[:i]
				body = strings.TrimSpace(rest[i:])
				break
			}
		}
		if name != "" {
			macros[name] = body
		}
		for i := range line {
			if line[i] != '\n' {
				line[i] = ' '
			}
		}
	}
	return macros
}

func splitLinesInPlace(src []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, c := range src {
		if c == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

// applyMacros textually replaces `NAME references with the macro
// body, the way the tool's predecessors in the flow expand them.
// Expansion is a single pass; macros are not expanded recursively.
// Longer names go first so a macro that is a prefix of another does
// not clobber the longer reference.
func applyMacros(src []byte, macros map[string]string) []byte {
	if len(macros) == 0 {
		return src
	}
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	text := string(src)
	for _, name := range names {
		text = strings.ReplaceAll(text, "`"+name, macros[name])
	}
	return []byte(text)
}

type scanner struct {
	src  []byte
	pos  int
	line int
	col  int
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c == '`' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) next() (Token, bool) {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.advance()
	}
	if s.pos >= len(s.src) {
		return Token{}, false
	}

	tok := Token{Pos: Pos{Line: s.line, Col: s.col}}
	start := s.pos
	c := s.src[s.pos]

	switch {
	case isIdentStart(c):
		for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
			s.advance()
		}
	case isDigit(c):
		// covers plain decimals and sized literals like 8'hFF
		for s.pos < len(s.src) {
			c := s.src[s.pos]
			if !isIdentPart(c) && c != '\'' {
				break
			}
			s.advance()
		}
	case c == '"':
		s.advance()
		for s.pos < len(s.src) && s.src[s.pos] != '"' {
			s.advance()
		}
		if s.pos < len(s.src) {
			s.advance()
		}
	default:
		s.advance()
	}

	tok.Text = string(s.src[start:s.pos])
	return tok, true
}
