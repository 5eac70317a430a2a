package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TopModule != "" {
		t.Errorf("TopModule = %q, want empty (derive from the file name)", cfg.TopModule)
	}
	if cfg.Check.Rules == nil {
		t.Errorf("Rules map should be initialized")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".vtop.json")
	if err := os.WriteFile(hidden, []byte(`{"topModule":"hidden_top"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopModule != "hidden_top" {
		t.Errorf("TopModule = %q, want hidden_top", cfg.TopModule)
	}

	visible := filepath.Join(dir, "vtop.json")
	if err := os.WriteFile(visible, []byte(`{"topModule":"visible_top"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopModule != "visible_top" {
		t.Errorf("vtop.json should shadow .vtop.json, got %q", cfg.TopModule)
	}
}

func TestLoadFilePartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtop.json")
	body := `{"check":{"rules":{"unconnected-input":"off"}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopModule != "" {
		t.Errorf("unset fields should keep defaults, TopModule = %q", cfg.TopModule)
	}
	if cfg.Check.Rules["unconnected-input"] != "off" {
		t.Errorf("rules = %v", cfg.Check.Rules)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "absent.json")); err == nil {
		t.Errorf("missing file should fail")
	}
	bad := filepath.Join(dir, "vtop.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Errorf("malformed JSON should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtop.json")

	cfg := DefaultConfig()
	cfg.TopModule = "soc_top"
	cfg.Check.Rules["unused-module"] = "error"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.TopModule != "soc_top" {
		t.Errorf("TopModule = %q", loaded.TopModule)
	}
	if loaded.Check.Rules["unused-module"] != "error" {
		t.Errorf("rules = %v", loaded.Check.Rules)
	}
}
