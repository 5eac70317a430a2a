// Package facts flattens a project into relational tables. The rows
// are what the policy engine evaluates and what `vtop facts` dumps
// for external tooling.
package facts

import (
	"github.com/hwkit/vtop/internal/design"
)

// Tables is the relational fact model. Each slice is a relation with
// flat rows.
type Tables struct {
	Modules     []ModuleRow     `json:"modules"`
	Ports       []PortRow       `json:"ports"`
	Parameters  []ParameterRow  `json:"parameters"`
	Instances   []InstanceRow   `json:"instances"`
	Connections []ConnectionRow `json:"connections"`
}

type ModuleRow struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Stale  bool   `json:"stale"`
}

type PortRow struct {
	Module    string `json:"module"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Kind      string `json:"kind"`
	Width     string `json:"width"`
}

type ParameterRow struct {
	Module  string `json:"module"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default"`
}

type InstanceRow struct {
	Name   string `json:"name"`
	Module string `json:"module"`
}

// ConnectionRow has one row per instance port, including unconnected
// ones (kind is empty then) so rules can reason about them.
type ConnectionRow struct {
	Instance string `json:"instance"`
	Module   string `json:"module"`
	Port     string `json:"port"`
	Kind     string `json:"kind"`
	Signal   string `json:"signal"`
}

// FromProject flattens a project into tables, in the project's
// insertion order.
func FromProject(p *design.Project) Tables {
	t := emptyTables()
	for _, m := range p.Modules() {
		t.Modules = append(t.Modules, ModuleRow{Name: m.Name, Source: m.Source, Stale: m.Stale})
		for _, port := range m.Ports {
			t.Ports = append(t.Ports, PortRow{
				Module:    m.Name,
				Name:      port.Name,
				Direction: port.Direction,
				Kind:      port.Kind,
				Width:     port.Width,
			})
		}
		for _, param := range m.Params {
			t.Parameters = append(t.Parameters, ParameterRow{
				Module:  m.Name,
				Name:    param.Name,
				Type:    param.Type,
				Default: param.Default,
			})
		}
	}
	for _, inst := range p.Instances() {
		t.Instances = append(t.Instances, InstanceRow{Name: inst.Name, Module: inst.Module})
		mod := p.ModuleOf(inst)
		for _, port := range mod.Ports {
			conn := inst.Conns[port.Name]
			t.Connections = append(t.Connections, ConnectionRow{
				Instance: inst.Name,
				Module:   inst.Module,
				Port:     port.Name,
				Kind:     conn.Kind,
				Signal:   conn.Signal,
			})
		}
	}
	return t
}

func emptyTables() Tables {
	return Tables{
		Modules:     []ModuleRow{},
		Ports:       []PortRow{},
		Parameters:  []ParameterRow{},
		Instances:   []InstanceRow{},
		Connections: []ConnectionRow{},
	}
}
