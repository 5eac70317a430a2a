package vlog

import "fmt"

// Pos is a 1-based line/column position in the scanned source.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SyntaxError reports source text the scanner cannot frame a module
// header in: no module keyword, or a header whose parentheses and
// brackets never balance.
type SyntaxError struct {
	Msg string
	Pos Pos
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParseError reports a malformed module header with the position of
// the offending token.
type ParseError struct {
	Msg string
	Pos Pos
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}
