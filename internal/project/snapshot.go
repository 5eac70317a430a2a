// Package project persists and restores the design graph. The sole
// persisted form is a snapshot line embedded in the generated Verilog
// text; there is no separate project file.
package project

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hwkit/vtop/internal/design"
	"github.com/hwkit/vtop/internal/validator"
)

// SnapshotMarker anchors the snapshot line in a generated file.
const SnapshotMarker = "// VERILOG_TOOL_DATA: "

const snapshotVersion = 1

// DecodeError reports a snapshot payload that could not be decoded:
// bad base64, malformed JSON, a schema violation or a dangling
// reference.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding project data: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("decoding project data: %s", e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Snapshot is the canonical serialized form of a project. Module and
// instance order is the project's insertion order so that a restored
// project regenerates byte-identical text.
type Snapshot struct {
	Version   int             `json:"version"`
	Top       string          `json:"top"`
	Modules   []ModuleState   `json:"modules"`
	Instances []InstanceState `json:"instances"`
}

// ModuleState carries the full port and parameter lists, so a project
// loads even when a module's source file is gone.
type ModuleState struct {
	Name   string             `json:"name"`
	Source string             `json:"source"`
	Ports  []design.Port      `json:"ports"`
	Params []design.Parameter `json:"parameters"`
	Macros map[string]string  `json:"macros,omitempty"`
}

// InstanceState records one instance with one connection entry per
// port of its module, in the module's port order.
type InstanceState struct {
	Name        string            `json:"name"`
	Module      string            `json:"module"`
	Connections []PortConnection  `json:"connections"`
	Params      map[string]string `json:"parameters,omitempty"`
}

type PortConnection struct {
	Port   string `json:"port"`
	Kind   string `json:"kind"`
	Signal string `json:"signal"`
}

// BuildSnapshot captures the current state of a project.
func BuildSnapshot(p *design.Project) *Snapshot {
	snap := &Snapshot{
		Version:   snapshotVersion,
		Top:       p.Top,
		Modules:   []ModuleState{},
		Instances: []InstanceState{},
	}
	for _, m := range p.Modules() {
		ports := m.Ports
		if ports == nil {
			ports = []design.Port{}
		}
		params := m.Params
		if params == nil {
			params = []design.Parameter{}
		}
		snap.Modules = append(snap.Modules, ModuleState{
			Name:   m.Name,
			Source: m.Source,
			Ports:  ports,
			Params: params,
			Macros: m.Macros,
		})
	}
	for _, inst := range p.Instances() {
		mod := p.ModuleOf(inst)
		state := InstanceState{
			Name:        inst.Name,
			Module:      inst.Module,
			Connections: []PortConnection{},
		}
		for _, port := range mod.Ports {
			conn := inst.Conns[port.Name]
			state.Connections = append(state.Connections, PortConnection{
				Port:   port.Name,
				Kind:   conn.Kind,
				Signal: conn.Signal,
			})
		}
		if len(inst.Params) > 0 {
			state.Params = inst.Params
		}
		snap.Instances = append(snap.Instances, state)
	}
	return snap
}

// EncodeLine renders the snapshot as the single marker line appended
// to generated output. The payload is one base64 token with no line
// breaks.
func (s *Snapshot) EncodeLine() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return SnapshotMarker + base64.StdEncoding.EncodeToString(data), nil
}

// FindSnapshotPayload locates the marker line in a saved file and
// returns the encoded payload. A missing marker means the file holds
// no recoverable project state, which is not an error here.
func FindSnapshotPayload(text string) (payload string, found bool, err error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, strings.TrimSpace(SnapshotMarker)) {
			continue
		}
		if found {
			return "", false, &DecodeError{Msg: "more than one project data line"}
		}
		payload = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(SnapshotMarker)))
		found = true
	}
	return payload, found, nil
}

// DecodeSnapshot decodes a payload and, when a validator is supplied,
// checks it against the schema contract before unmarshaling.
func DecodeSnapshot(payload string, v *validator.Validator) (*Snapshot, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Msg: "invalid base64 payload", Err: err}
	}
	if v != nil {
		if err := v.ValidateJSON(data); err != nil {
			return nil, &DecodeError{Msg: "snapshot does not match contract", Err: err}
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &DecodeError{Msg: "invalid snapshot JSON", Err: err}
	}
	if snap.Version != snapshotVersion {
		return nil, &DecodeError{Msg: fmt.Sprintf("unsupported snapshot version %d", snap.Version)}
	}
	return &snap, nil
}

// Restore rebuilds a design graph from the snapshot without touching
// any source file.
func (s *Snapshot) Restore() (*design.Project, error) {
	p := design.NewProject()
	p.Top = s.Top
	for _, state := range s.Modules {
		m := &design.Module{
			Name:   state.Name,
			Source: state.Source,
			Ports:  state.Ports,
			Params: state.Params,
			Macros: state.Macros,
		}
		if err := p.AddModule(m); err != nil {
			return nil, &DecodeError{Msg: "restoring module " + state.Name, Err: err}
		}
	}
	for _, state := range s.Instances {
		inst, err := p.Instantiate(state.Module, state.Name)
		if err != nil {
			return nil, &DecodeError{Msg: "restoring instance " + state.Name, Err: err}
		}
		for _, conn := range state.Connections {
			if _, ok := inst.Conns[conn.Port]; !ok {
				return nil, &DecodeError{Msg: fmt.Sprintf("instance %s has a connection for unknown port %s", state.Name, conn.Port)}
			}
			inst.Conns[conn.Port] = design.Connection{Kind: conn.Kind, Signal: conn.Signal}
		}
		for name, value := range state.Params {
			if err := p.SetParameterOverride(state.Name, name, value); err != nil {
				return nil, &DecodeError{Msg: "restoring parameter overrides for " + state.Name, Err: err}
			}
		}
	}
	return p, nil
}
