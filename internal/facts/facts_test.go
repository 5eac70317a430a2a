package facts

import (
	"testing"

	"github.com/hwkit/vtop/internal/design"
)

func factsProject(t *testing.T) *design.Project {
	t.Helper()
	p := design.NewProject()
	err := p.AddModule(&design.Module{
		Name:   "m",
		Source: "m.v",
		Ports: []design.Port{
			{Name: "a", Direction: design.DirInput, Kind: "wire", Width: "8"},
			{Name: "b", Direction: design.DirOutput, Kind: "wire"},
		},
		Params: []design.Parameter{
			{Name: "WIDTH", Type: "int", Default: "8"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Instantiate("m", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetConnection("u1", "a", design.ConnInput, "data_in"); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFromProject(t *testing.T) {
	tables := FromProject(factsProject(t))

	if len(tables.Modules) != 1 || tables.Modules[0].Name != "m" {
		t.Errorf("modules = %+v", tables.Modules)
	}
	if len(tables.Ports) != 2 {
		t.Fatalf("ports = %+v", tables.Ports)
	}
	if tables.Ports[0].Width != "8" || tables.Ports[0].Direction != "input" {
		t.Errorf("port row = %+v", tables.Ports[0])
	}
	if len(tables.Parameters) != 1 || tables.Parameters[0].Default != "8" {
		t.Errorf("parameters = %+v", tables.Parameters)
	}
	if len(tables.Instances) != 1 {
		t.Errorf("instances = %+v", tables.Instances)
	}
	if len(tables.Connections) != 2 {
		t.Fatalf("every port should produce a connection row, got %+v", tables.Connections)
	}
	byPort := map[string]ConnectionRow{}
	for _, row := range tables.Connections {
		byPort[row.Port] = row
	}
	if byPort["a"].Kind != "input" || byPort["a"].Signal != "data_in" {
		t.Errorf("connected row = %+v", byPort["a"])
	}
	if byPort["b"].Kind != "" || byPort["b"].Signal != "" {
		t.Errorf("unconnected row should have empty kind and signal, got %+v", byPort["b"])
	}
}

func TestFromProjectEmpty(t *testing.T) {
	tables := FromProject(design.NewProject())
	if tables.Modules == nil || tables.Ports == nil || tables.Connections == nil {
		t.Errorf("relations must marshal as [] rather than null: %+v", tables)
	}
}

func TestComputeDeltaAddsAndRemoves(t *testing.T) {
	p := factsProject(t)
	before := FromProject(p)

	refreshed := &design.Module{
		Name:   "m",
		Source: "m.v",
		Ports: []design.Port{
			{Name: "a", Direction: design.DirInput, Kind: "wire", Width: "8"},
			{Name: "enable", Direction: design.DirInput, Kind: "wire"},
		},
	}
	if err := p.RefreshModule("m", refreshed); err != nil {
		t.Fatal(err)
	}
	after := FromProject(p)

	delta := ComputeDelta(before, after)
	if delta.Empty() {
		t.Fatalf("refresh should produce a delta")
	}
	if len(delta.Added.Ports) != 1 || delta.Added.Ports[0].Name != "enable" {
		t.Errorf("added ports = %+v", delta.Added.Ports)
	}
	if len(delta.Removed.Ports) != 1 || delta.Removed.Ports[0].Name != "b" {
		t.Errorf("removed ports = %+v", delta.Removed.Ports)
	}
	if len(delta.Removed.Parameters) != 1 || delta.Removed.Parameters[0].Name != "WIDTH" {
		t.Errorf("removed parameters = %+v", delta.Removed.Parameters)
	}
	if len(delta.Added.Modules) != 0 || len(delta.Removed.Modules) != 0 {
		t.Errorf("unchanged module rows leaked into the delta: %+v", delta)
	}
}

func TestComputeDeltaIdentical(t *testing.T) {
	p := factsProject(t)
	a := FromProject(p)
	b := FromProject(p)
	if d := ComputeDelta(a, b); !d.Empty() {
		t.Errorf("identical snapshots should give an empty delta: %+v", d)
	}
}
