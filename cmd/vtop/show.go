package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hwkit/vtop/internal/design"
	"github.com/hwkit/vtop/internal/facts"
	"github.com/hwkit/vtop/internal/vlog"
)

// showModule prints one module's ports, parameters and macros, the
// way the library detail view lists them.
func showModule(proj *design.Project, name string) error {
	m, ok := proj.Module(name)
	if !ok {
		return &design.UnknownModuleError{Name: name}
	}
	fmt.Printf("module %s (%s)\n", m.Name, m.Source)
	if m.Stale {
		fmt.Println("  [stale: restored from snapshot, source not readable]")
	}
	fmt.Println("Ports:")
	for _, port := range m.Ports {
		width := vlog.NormalizeWidth(port.Width)
		if width == "" {
			width = "1 bit"
		}
		fmt.Printf("  %-6s %-5s %-10s %s%s\n",
			port.Direction, port.Kind, width, port.Name, vlog.NormalizeDims(port.Dims))
	}
	if len(m.Params) > 0 {
		fmt.Println("Parameters:")
		for _, param := range m.Params {
			ptype := param.Type
			if ptype == "" {
				ptype = "value"
			}
			fmt.Printf("  %-8s %s = %s\n", ptype, param.Name, param.Default)
		}
	}
	if len(m.Macros) > 0 {
		fmt.Println("Macros:")
		names := make([]string, 0, len(m.Macros))
		for name := range m.Macros {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  `%s = %s\n", name, m.Macros[name])
		}
	}
	return nil
}

func writeFactsJSON(w io.Writer, t facts.Tables) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
