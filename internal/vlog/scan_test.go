package vlog

import (
	"errors"
	"testing"
)

func TestScanStripsComments(t *testing.T) {
	src := []byte(`// leading comment
module /* inline */ m (input a); // trailing
endmodule`)
	res, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := res.Header[0].Text; got != "module" {
		t.Errorf("first token = %q, want module", got)
	}
	for _, tok := range res.Header {
		if tok.Text == "inline" || tok.Text == "trailing" {
			t.Errorf("comment text %q leaked into token stream", tok.Text)
		}
	}
	if res.Header[1].Text != "m" || res.Header[1].Pos.Line != 2 {
		t.Errorf("module name token = %+v, want m at line 2", res.Header[1])
	}
}

func TestScanCapturesMacros(t *testing.T) {
	src := []byte("`define BUS_WIDTH 16\n`define VENDOR acme\nmodule m (input [`BUS_WIDTH-1:0] d);\nendmodule\n")
	res, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if res.Macros["BUS_WIDTH"] != "16" {
		t.Errorf("BUS_WIDTH = %q, want 16", res.Macros["BUS_WIDTH"])
	}
	if res.Macros["VENDOR"] != "acme" {
		t.Errorf("VENDOR = %q, want acme", res.Macros["VENDOR"])
	}
	// the macro reference must be expanded before tokenizing
	for _, tok := range res.Header {
		if tok.Text == "`BUS_WIDTH" {
			t.Errorf("macro reference was not expanded")
		}
	}
}

func TestScanMacroPrefixNames(t *testing.T) {
	src := []byte("`define BUS 4\n`define BUS_WIDTH 16\nmodule m (input [`BUS_WIDTH-1:0] d, input [`BUS-1:0] s);\nendmodule\n")
	res, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, tok := range res.Header {
		if tok.Text == "_WIDTH" {
			t.Fatalf("macro BUS clobbered the BUS_WIDTH reference")
		}
	}
	var saw16, saw4 bool
	for _, tok := range res.Header {
		if tok.Text == "16" {
			saw16 = true
		}
		if tok.Text == "4" {
			saw4 = true
		}
	}
	if !saw16 || !saw4 {
		t.Errorf("expanded widths missing, saw16=%v saw4=%v", saw16, saw4)
	}
}

func TestScanNoModule(t *testing.T) {
	_, err := Scan([]byte("// just a comment\nwire x;\n"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestScanUnterminatedHeader(t *testing.T) {
	_, err := Scan([]byte("module m (input a, output b"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestScanSplitsHeaderAndBody(t *testing.T) {
	src := []byte("module m (a, b);\n  input a;\n  output b;\nendmodule\n")
	res, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if res.Header[len(res.Header)-1].Text != ";" {
		t.Errorf("header should end at the closing semicolon")
	}
	var sawInput, sawEndmodule bool
	for _, tok := range res.Body {
		if tok.Text == "input" {
			sawInput = true
		}
		if tok.Text == "endmodule" {
			sawEndmodule = true
		}
	}
	if !sawInput {
		t.Errorf("body tokens missing the input declaration")
	}
	if sawEndmodule {
		t.Errorf("body tokens should stop before endmodule")
	}
}
