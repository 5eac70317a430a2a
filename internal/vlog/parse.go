package vlog

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hwkit/vtop/internal/design"
)

// ParseFile reads a Verilog/SystemVerilog source file and parses its
// module header into a descriptor.
func ParseFile(path string) (*design.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := ParseSource(data)
	if err != nil {
		return nil, err
	}
	m.Source = path
	return m, nil
}

// ParseSource parses the first module header in src. Both ANSI
// headers (directions in the port list) and non-ANSI headers
// (directions declared in the body) are accepted.
func ParseSource(src []byte) (*design.Module, error) {
	res, err := Scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: res.Header}
	m, pending, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		if err := resolveBodyPorts(m, pending, res.Body); err != nil {
			return nil, err
		}
	}
	if len(m.Params) == 0 {
		parseBodyParams(m, res.Body)
	}
	m.Macros = res.Macros
	return m, nil
}

var directions = map[string]bool{
	design.DirInput:  true,
	design.DirOutput: true,
	design.DirInout:  true,
}

var netKinds = map[string]bool{
	"wire": true, "logic": true, "reg": true, "bit": true,
	"tri": true, "wand": true, "wor": true,
}

var paramTypes = map[string]bool{
	"integer": true, "int": true, "real": true, "realtime": true,
	"time": true, "string": true, "logic": true, "bit": true,
	"byte": true, "shortint": true, "longint": true, "type": true,
}

// pendingPort is a port named in a non-ANSI port list whose direction
// is still to be found in the body.
type pendingPort struct {
	index int // position in Module.Ports
	pos   Pos
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	if len(p.toks) > 0 {
		return Token{Pos: p.toks[len(p.toks)-1].Pos}
	}
	return Token{}
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return tok
}

func (p *parser) errf(pos Pos, format string, args ...interface{}) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func (p *parser) parseHeader() (*design.Module, map[string]pendingPort, error) {
	kw := p.next() // module / macromodule, guaranteed by the scanner
	name := p.next()
	if !isIdentToken(name) {
		return nil, nil, p.errf(name.Pos, "expected module name after %q, found %q", kw.Text, name.Text)
	}
	m := &design.Module{Name: name.Text}

	if p.peek().Text == "#" {
		p.next()
		if tok := p.next(); tok.Text != "(" {
			return nil, nil, p.errf(tok.Pos, "expected ( after # in parameter list, found %q", tok.Text)
		}
		if err := p.parseParamList(m); err != nil {
			return nil, nil, err
		}
	}

	pending := make(map[string]pendingPort)
	if p.peek().Text == "(" {
		p.next()
		if err := p.parsePortList(m, pending); err != nil {
			return nil, nil, err
		}
	}

	if tok := p.next(); tok.Text != ";" {
		return nil, nil, p.errf(tok.Pos, "expected ; to close module header, found %q", tok.Text)
	}
	return m, pending, nil
}

// parseParamList consumes `#(...)` entries up to and including the
// closing parenthesis.
func (p *parser) parseParamList(m *design.Module) error {
	for {
		entry, closed, err := p.entryTokens()
		if err != nil {
			return err
		}
		if len(entry) > 0 {
			param, err := p.parseParam(entry)
			if err != nil {
				return err
			}
			m.Params = append(m.Params, param)
		}
		if closed {
			return nil
		}
	}
}

func (p *parser) parseParam(toks []Token) (design.Parameter, error) {
	var param design.Parameter
	i := 0
	if i < len(toks) && (toks[i].Text == "parameter" || toks[i].Text == "localparam") {
		i++
	}
	if i < len(toks) && paramTypes[toks[i].Text] {
		param.Type = toks[i].Text
		i++
	}
	for i < len(toks) && toks[i].Text == "[" {
		spec, rest, err := p.bracketGroup(toks[i:])
		if err != nil {
			return param, err
		}
		param.Dims = append(param.Dims, spec)
		i = len(toks) - len(rest)
	}
	if i >= len(toks) || !isIdentToken(toks[i]) {
		pos := toks[0].Pos
		if i < len(toks) {
			pos = toks[i].Pos
		}
		return param, p.errf(pos, "expected parameter name")
	}
	param.Name = toks[i].Text
	i++
	for i < len(toks) && toks[i].Text == "[" {
		spec, rest, err := p.bracketGroup(toks[i:])
		if err != nil {
			return param, err
		}
		param.Dims = append(param.Dims, spec)
		i = len(toks) - len(rest)
	}
	if i < len(toks) {
		if toks[i].Text != "=" {
			return param, p.errf(toks[i].Pos, "expected = after parameter %q, found %q", param.Name, toks[i].Text)
		}
		param.Default = joinTokens(toks[i+1:])
	}
	if param.Type == "" {
		param.Type = sniffParamType(param.Default)
	}
	return param, nil
}

// sniffParamType guesses a parameter's type from its default when no
// type keyword was written: leading digit means int, a quote means
// string, anything else stays untyped.
func sniffParamType(def string) string {
	switch {
	case def == "":
		return ""
	case def[0] >= '0' && def[0] <= '9':
		return "int"
	case def[0] == '"' || def[0] == '\'':
		return "string"
	}
	return ""
}

// parsePortList consumes port-list entries up to and including the
// closing parenthesis. ANSI entries carry their own declaration; a
// bare identifier inherits the preceding ANSI declaration if there is
// one (Verilog comma-list semantics) and is otherwise recorded as
// pending for non-ANSI body resolution.
func (p *parser) parsePortList(m *design.Module, pending map[string]pendingPort) error {
	var sticky *design.Port
	for {
		entry, closed, err := p.entryTokens()
		if err != nil {
			return err
		}
		if len(entry) > 0 {
			if err := p.parsePortEntry(m, pending, entry, &sticky); err != nil {
				return err
			}
		}
		if closed {
			return nil
		}
	}
}

func (p *parser) parsePortEntry(m *design.Module, pending map[string]pendingPort, toks []Token, sticky **design.Port) error {
	first := toks[0]

	if directions[first.Text] {
		port, err := p.parseAnsiPort(toks)
		if err != nil {
			return err
		}
		m.Ports = append(m.Ports, port)
		decl := port
		*sticky = &decl
		return nil
	}

	if !isIdentToken(first) {
		return p.errf(first.Pos, "unexpected %q in port list", first.Text)
	}

	// bare name, optionally with unpacked dimensions
	name := first.Text
	var dims []string
	rest := toks[1:]
	for len(rest) > 0 && rest[0].Text == "[" {
		spec, r, err := p.bracketGroup(rest)
		if err != nil {
			return err
		}
		dims = append(dims, spec)
		rest = r
	}
	if len(rest) > 0 {
		// a second word after an identifier means the first was
		// meant as a direction keyword
		return p.errf(first.Pos, "malformed direction keyword %q", first.Text)
	}

	if *sticky != nil {
		prev := **sticky
		m.Ports = append(m.Ports, design.Port{
			Name:      name,
			Direction: prev.Direction,
			Kind:      prev.Kind,
			Width:     prev.Width,
			Dims:      dims,
		})
		return nil
	}

	m.Ports = append(m.Ports, design.Port{Name: name, Kind: "wire", Dims: dims})
	pending[name] = pendingPort{index: len(m.Ports) - 1, pos: first.Pos}
	return nil
}

func (p *parser) parseAnsiPort(toks []Token) (design.Port, error) {
	port := design.Port{Direction: toks[0].Text, Kind: "wire"}
	i := 1
	if i < len(toks) && netKinds[toks[i].Text] {
		port.Kind = toks[i].Text
		i++
	}
	for i < len(toks) && (toks[i].Text == "signed" || toks[i].Text == "unsigned" || toks[i].Text == "var") {
		i++
	}
	var pre []string
	for i < len(toks) && toks[i].Text == "[" {
		spec, rest, err := p.bracketGroup(toks[i:])
		if err != nil {
			return port, err
		}
		pre = append(pre, spec)
		i = len(toks) - len(rest)
	}
	if i >= len(toks) || !isIdentToken(toks[i]) {
		pos := toks[0].Pos
		if i < len(toks) {
			pos = toks[i].Pos
		}
		return port, p.errf(pos, "expected port name after %s declaration", port.Direction)
	}
	port.Name = toks[i].Text
	i++
	if len(pre) > 0 {
		port.Width = pre[0]
		port.Dims = append(port.Dims, pre[1:]...)
	}
	for i < len(toks) && toks[i].Text == "[" {
		spec, rest, err := p.bracketGroup(toks[i:])
		if err != nil {
			return port, err
		}
		port.Dims = append(port.Dims, spec)
		i = len(toks) - len(rest)
	}
	if i < len(toks) {
		return port, p.errf(toks[i].Pos, "unexpected %q after port %q", toks[i].Text, port.Name)
	}
	return port, nil
}

// entryTokens collects tokens until a comma at nesting depth zero or
// the closing parenthesis of the surrounding list. closed reports
// that the list itself ended.
func (p *parser) entryTokens() (entry []Token, closed bool, err error) {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Text {
		case "":
			return nil, false, p.errf(tok.Pos, "unexpected end of module header")
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				if tok.Text != ")" {
					return nil, false, p.errf(tok.Pos, "unmatched %q in module header", tok.Text)
				}
				p.next()
				return entry, true, nil
			}
			depth--
		case ",":
			if depth == 0 {
				p.next()
				return entry, false, nil
			}
		case ";":
			if depth == 0 {
				return nil, false, p.errf(tok.Pos, "unexpected ; inside port list")
			}
		}
		entry = append(entry, p.next())
	}
}

// bracketGroup consumes one [...] group from the front of toks and
// returns its width specification plus the remaining tokens.
func (p *parser) bracketGroup(toks []Token) (string, []Token, error) {
	depth := 0
	for i, tok := range toks {
		switch tok.Text {
		case "[":
			depth++
		case "]":
			depth--
			if depth == 0 {
				return widthSpec(toks[1:i]), toks[i+1:], nil
			}
		}
	}
	return "", nil, p.errf(toks[0].Pos, "unmatched [ in declaration")
}

// widthSpec reduces the raw text between brackets to a width
// specification: a plain count stays as written; a fully numeric
// msb:lsb range becomes its width; an expr-1:0 range becomes expr;
// any other range is preserved verbatim (the normalizer re-emits it
// unchanged).
func widthSpec(inner []Token) string {
	raw := joinTokens(inner)
	if !strings.Contains(raw, ":") || strings.Contains(raw, "?") {
		return raw
	}
	parts := strings.SplitN(raw, ":", 2)
	msb := strings.TrimSpace(parts[0])
	lsb := strings.TrimSpace(parts[1])
	if hi, err := strconv.Atoi(msb); err == nil {
		if lo, err := strconv.Atoi(lsb); err == nil {
			if hi < lo {
				hi, lo = lo, hi
			}
			return strconv.Itoa(hi - lo + 1)
		}
	}
	if lsb == "0" && strings.HasSuffix(msb, "-1") {
		return strings.TrimSpace(strings.TrimSuffix(msb, "-1"))
	}
	return raw
}

// resolveBodyPorts scans the module body for the declarations of
// ports that appeared as bare names in the port list. Names never
// declared are reported together in one error.
func resolveBodyPorts(m *design.Module, pending map[string]pendingPort, body []Token) error {
	i := 0
	for i < len(body) {
		if !directions[body[i].Text] {
			i++
			continue
		}
		direction := body[i].Text
		i++
		kind := "wire"
		if i < len(body) && netKinds[body[i].Text] {
			kind = body[i].Text
			i++
		}
		for i < len(body) && (body[i].Text == "signed" || body[i].Text == "unsigned") {
			i++
		}
		width := ""
		var dims []string
		for i < len(body) && body[i].Text == "[" {
			j := matchBracket(body, i)
			if j < 0 {
				return &ParseError{Msg: "unmatched [ in port declaration", Pos: body[i].Pos}
			}
			spec := widthSpec(body[i+1 : j])
			if width == "" {
				width = spec
			} else {
				dims = append(dims, spec)
			}
			i = j + 1
		}
		// one or more names, comma separated, up to the semicolon
		for i < len(body) && body[i].Text != ";" {
			if isIdentToken(body[i]) {
				name := body[i].Text
				nameDims := append([]string(nil), dims...)
				i++
				for i < len(body) && body[i].Text == "[" {
					j := matchBracket(body, i)
					if j < 0 {
						return &ParseError{Msg: "unmatched [ in port declaration", Pos: body[i].Pos}
					}
					nameDims = append(nameDims, widthSpec(body[i+1:j]))
					i = j + 1
				}
				if pp, ok := pending[name]; ok {
					port := &m.Ports[pp.index]
					port.Direction = direction
					port.Kind = kind
					port.Width = width
					if len(port.Dims) == 0 {
						port.Dims = nameDims
					}
					delete(pending, name)
				}
				continue
			}
			i++
		}
	}

	if len(pending) == 0 {
		return nil
	}
	var missing []string
	pos := Pos{}
	for _, port := range m.Ports {
		if pp, ok := pending[port.Name]; ok {
			missing = append(missing, port.Name)
			if pos.Line == 0 || pp.pos.Line < pos.Line {
				pos = pp.pos
			}
		}
	}
	return &ParseError{
		Msg: fmt.Sprintf("ports listed but never declared with a direction: %s",
			strings.Join(missing, ", ")),
		Pos: pos,
	}
}

// parseBodyParams picks up `parameter name = value;` declarations in
// the body of non-ANSI modules.
func parseBodyParams(m *design.Module, body []Token) {
	i := 0
	for i < len(body) {
		if body[i].Text != "parameter" {
			i++
			continue
		}
		start := i
		for i < len(body) && body[i].Text != ";" {
			i++
		}
		if param, err := (&parser{}).parseParam(body[start:i]); err == nil && param.Name != "" {
			if m.ParamByName(param.Name) == nil {
				m.Params = append(m.Params, param)
			}
		}
	}
}

func matchBracket(toks []Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Text {
		case "[":
			depth++
		case "]":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentToken(tok Token) bool {
	return tok.Text != "" && isIdentStart(tok.Text[0]) && tok.Text[0] != '`'
}

// joinTokens reassembles token texts, inserting a space only where
// two word-like tokens would otherwise merge.
func joinTokens(toks []Token) string {
	var b strings.Builder
	prev := ""
	for _, tok := range toks {
		if prev != "" && wordLike(prev[len(prev)-1]) && wordLike(tok.Text[0]) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
		prev = tok.Text
	}
	return b.String()
}

func wordLike(c byte) bool {
	return isIdentPart(c) || c == '\'' || c == '"'
}
