package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hwkit/vtop/internal/design"
	"github.com/hwkit/vtop/internal/generate"
	"github.com/hwkit/vtop/internal/validator"
	"github.com/hwkit/vtop/internal/vlog"
)

// ErrNoProjectData is returned by LoadFile when the file carries no
// snapshot marker. The Verilog body may still be perfectly valid;
// there is just nothing to restore.
var ErrNoProjectData = errors.New("no project data line found")

// Session owns one project and exposes every operation a front end
// needs. The core is single-writer: callers invoking a Session from
// multiple interactive contexts must serialize the calls themselves.
type Session struct {
	proj *design.Project
	val  *validator.Validator
}

// NewSession creates a session holding an empty project.
func NewSession() (*Session, error) {
	val, err := validator.New()
	if err != nil {
		return nil, err
	}
	return &Session{proj: design.NewProject(), val: val}, nil
}

// Project exposes the underlying design graph.
func (s *Session) Project() *design.Project { return s.proj }

// ParseModule parses a source file and inserts the module into the
// library. Parsing the same path again refreshes the module in
// place.
func (s *Session) ParseModule(path string) (*design.Module, error) {
	m, err := vlog.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.proj.AddModule(m); err != nil {
		return nil, err
	}
	parsed, _ := s.proj.Module(m.Name)
	return parsed, nil
}

// RefreshModule re-parses a module's source path and replaces its
// attributes, keeping its identity and instances.
func (s *Session) RefreshModule(name string) (*design.Module, error) {
	m, ok := s.proj.Module(name)
	if !ok {
		return nil, &design.UnknownModuleError{Name: name}
	}
	parsed, err := vlog.ParseFile(m.Source)
	if err != nil {
		return nil, err
	}
	if err := s.proj.RefreshModule(name, parsed); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteModule removes a module that no instance references.
func (s *Session) DeleteModule(name string) error {
	return s.proj.RemoveModule(name)
}

// Instantiate creates a named instance of a library module.
func (s *Session) Instantiate(module, name string) (*design.Instance, error) {
	return s.proj.Instantiate(module, name)
}

// RenameInstance renames an instance, keeping connections and
// overrides.
func (s *Session) RenameInstance(oldName, newName string) error {
	return s.proj.RenameInstance(oldName, newName)
}

// DeleteInstance removes an instance and all of its connections.
func (s *Session) DeleteInstance(name string) error {
	return s.proj.RemoveInstance(name)
}

// SetConnection binds an instance port to a signal.
func (s *Session) SetConnection(instance, port, kind, signal string) error {
	return s.proj.SetConnection(instance, port, kind, signal)
}

// SetParameterOverride overrides a parameter on an instance.
func (s *Session) SetParameterOverride(instance, name, value string) error {
	return s.proj.SetParameterOverride(instance, name, value)
}

// GenerateText renders the top-level module for the current graph.
func (s *Session) GenerateText() (string, error) {
	top := s.proj.Top
	if top == "" {
		top = "top"
	}
	return generate.TopModule(s.proj, top)
}

// SaveFile generates the top module and writes it, with the snapshot
// line appended, to path. The top-module name defaults to the file's
// base name.
func (s *Session) SaveFile(path, topName string) error {
	if topName == "" {
		base := filepath.Base(path)
		topName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	s.proj.Top = topName

	text, err := generate.TopModule(s.proj, topName)
	if err != nil {
		return err
	}
	line, err := BuildSnapshot(s.proj).EncodeLine()
	if err != nil {
		return err
	}
	out := text + "\n\n" + line + "\n"
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadFile restores the project embedded in a previously saved file.
// No module source is re-parsed; modules whose source path is no
// longer readable are marked stale but load fully from the snapshot.
func (s *Session) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	payload, found, err := FindSnapshotPayload(string(data))
	if err != nil {
		return err
	}
	if !found {
		return ErrNoProjectData
	}
	snap, err := DecodeSnapshot(payload, s.val)
	if err != nil {
		return err
	}
	proj, err := snap.Restore()
	if err != nil {
		return err
	}
	for _, m := range proj.Modules() {
		if m.Source == "" {
			m.Stale = true
			continue
		}
		if _, err := os.Stat(m.Source); err != nil {
			m.Stale = true
		}
	}
	s.proj = proj
	return nil
}
