package vlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hwkit/vtop/internal/design"
)

func TestParseAnsiHeader(t *testing.T) {
	m, err := ParseSource([]byte("module m(input [7:0] a, output b); endmodule"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if m.Name != "m" {
		t.Errorf("name = %q, want m", m.Name)
	}
	if len(m.Ports) != 2 {
		t.Fatalf("got %d ports, want 2", len(m.Ports))
	}
	a := m.Ports[0]
	if a.Name != "a" || a.Direction != design.DirInput || a.Width != "8" {
		t.Errorf("port a = %+v, want input with width 8", a)
	}
	b := m.Ports[1]
	if b.Name != "b" || b.Direction != design.DirOutput || b.Width != "" {
		t.Errorf("port b = %+v, want scalar output", b)
	}
}

func TestParseParameters(t *testing.T) {
	src := `module fifo #(
		parameter WIDTH = 8,
		parameter int DEPTH = 16,
		parameter NAME = "fifo0"
	) (
		input  wire [WIDTH-1:0] din,
		output wire [WIDTH-1:0] dout
	);
	endmodule`
	m, err := ParseSource([]byte(src))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if len(m.Params) != 3 {
		t.Fatalf("got %d parameters, want 3", len(m.Params))
	}
	tests := []struct {
		name, ptype, def string
	}{
		{"WIDTH", "int", "8"},
		{"DEPTH", "int", "16"},
		{"NAME", "string", `"fifo0"`},
	}
	for i, tt := range tests {
		p := m.Params[i]
		if p.Name != tt.name || p.Type != tt.ptype || p.Default != tt.def {
			t.Errorf("param %d = %+v, want %+v", i, p, tt)
		}
	}
	if m.Ports[0].Width != "WIDTH" {
		t.Errorf("din width = %q, want WIDTH", m.Ports[0].Width)
	}
}

func TestParseMultiDimensionalPort(t *testing.T) {
	m, err := ParseSource([]byte("module mem(input [7:0] data [3:0], output ready); endmodule"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	data := m.Ports[0]
	if data.Width != "8" {
		t.Errorf("packed width = %q, want 8", data.Width)
	}
	if len(data.Dims) != 1 || data.Dims[0] != "4" {
		t.Errorf("unpacked dims = %v, want [4]", data.Dims)
	}
}

func TestParseCommaListInheritsDirection(t *testing.T) {
	m, err := ParseSource([]byte("module m(input [3:0] a, b, output c); endmodule"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	b := m.Ports[1]
	if b.Name != "b" || b.Direction != design.DirInput || b.Width != "4" {
		t.Errorf("port b = %+v, want inherited input [3:0]", b)
	}
	if m.Ports[2].Direction != design.DirOutput {
		t.Errorf("port c direction = %q, want output", m.Ports[2].Direction)
	}
}

func TestParseNonAnsiHeader(t *testing.T) {
	src := `module counter(clk, rst, count);
		input clk;
		input rst;
		output [7:0] count;
		parameter START = 0;
	endmodule`
	m, err := ParseSource([]byte(src))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	want := []struct {
		name, dir, width string
	}{
		{"clk", design.DirInput, ""},
		{"rst", design.DirInput, ""},
		{"count", design.DirOutput, "8"},
	}
	for i, tt := range want {
		p := m.Ports[i]
		if p.Name != tt.name || p.Direction != tt.dir || p.Width != tt.width {
			t.Errorf("port %d = %+v, want %+v", i, p, tt)
		}
	}
	if len(m.Params) != 1 || m.Params[0].Name != "START" {
		t.Errorf("params = %+v, want START", m.Params)
	}
}

func TestParseNonAnsiUndeclaredPortsBatchError(t *testing.T) {
	src := `module m(a, b, c);
		input a;
	endmodule`
	_, err := ParseSource([]byte(src))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	// one error naming every undeclared port, not one error per name
	if !strings.Contains(parseErr.Msg, "b") || !strings.Contains(parseErr.Msg, "c") {
		t.Errorf("error should name all undeclared ports, got %q", parseErr.Msg)
	}
	if strings.Contains(parseErr.Msg, "a,") || strings.HasSuffix(parseErr.Msg, " a") {
		t.Errorf("declared port a should not be reported, got %q", parseErr.Msg)
	}
}

func TestParseMalformedDirection(t *testing.T) {
	_, err := ParseSource([]byte("module m(inptu [7:0] a); endmodule"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Pos.Line == 0 {
		t.Errorf("ParseError should carry a position, got %+v", parseErr.Pos)
	}
}

func TestParseMacroWidth(t *testing.T) {
	src := "`define BUS 16\nmodule m(input [`BUS-1:0] d);\nendmodule\n"
	m, err := ParseSource([]byte(src))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if m.Ports[0].Width != "16" {
		t.Errorf("width = %q, want 16 after macro expansion", m.Ports[0].Width)
	}
	if m.Macros["BUS"] != "16" {
		t.Errorf("macro BUS = %q, want 16", m.Macros["BUS"])
	}
}

func TestParseHeaderWithoutPortList(t *testing.T) {
	m, err := ParseSource([]byte("module bare;\nendmodule\n"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if len(m.Ports) != 0 {
		t.Errorf("got %d ports, want 0", len(m.Ports))
	}
}

func TestParseSymbolicRangePreserved(t *testing.T) {
	m, err := ParseSource([]byte("module m(input [MSB:LSB] d); endmodule"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if m.Ports[0].Width != "MSB:LSB" {
		t.Errorf("width = %q, want the range preserved verbatim", m.Ports[0].Width)
	}
	if got := NormalizeWidth(m.Ports[0].Width); got != "[MSB:LSB]" {
		t.Errorf("normalized = %q, want [MSB:LSB]", got)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.v")
	if err := os.WriteFile(path, []byte("module m(input a); endmodule"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if m.Source != path {
		t.Errorf("source = %q, want %q", m.Source, path)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.v")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
