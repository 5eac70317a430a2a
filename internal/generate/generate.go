// Package generate renders a project into top-level Verilog text.
// Generation is a pure function of the design graph: an unmutated
// project always renders to byte-identical output.
package generate

import (
	"fmt"
	"strings"

	"github.com/hwkit/vtop/internal/design"
	"github.com/hwkit/vtop/internal/vlog"
)

// ConflictingSignalKindError reports a signal name used with more
// than one connection kind across the project, e.g. once as a wire
// and once as a top-level input.
type ConflictingSignalKindError struct {
	Signal string
	Kinds  []string
}

func (e *ConflictingSignalKindError) Error() string {
	return fmt.Sprintf("signal %q is used with conflicting kinds: %s",
		e.Signal, strings.Join(e.Kinds, " and "))
}

// topSignal is one deduplicated top-level signal, with the width of
// the port it was first discovered on.
type topSignal struct {
	name  string
	width string
	dims  []string
}

// TopModule renders the top-level module text for a project. Ports
// and wires appear in insertion-discovery order: first instance
// first, ports in their declared order.
func TopModule(p *design.Project, topName string) (string, error) {
	var inputs, outputs, wires []topSignal
	kinds := make(map[string]string)
	seen := make(map[string]bool)

	for _, inst := range p.Instances() {
		mod := p.ModuleOf(inst)
		for _, port := range mod.Ports {
			conn := inst.Conns[port.Name]
			if conn.Kind == design.ConnUnset || conn.Signal == "" {
				continue
			}
			if prev, ok := kinds[conn.Signal]; ok && prev != conn.Kind {
				return "", &ConflictingSignalKindError{
					Signal: conn.Signal,
					Kinds:  []string{prev, conn.Kind},
				}
			}
			kinds[conn.Signal] = conn.Kind
			if seen[conn.Signal] {
				continue
			}
			seen[conn.Signal] = true
			sig := topSignal{name: conn.Signal, width: port.Width, dims: port.Dims}
			switch conn.Kind {
			case design.ConnInput:
				inputs = append(inputs, sig)
			case design.ConnOutput:
				outputs = append(outputs, sig)
			case design.ConnWire:
				wires = append(wires, sig)
			}
		}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("// Auto-generated top module: %s", topName))
	lines = append(lines, fmt.Sprintf("module %s (", topName))

	var ports []string
	for _, sig := range inputs {
		ports = append(ports, "input wire"+signalDecl(sig))
	}
	for _, sig := range outputs {
		ports = append(ports, "output wire"+signalDecl(sig))
	}
	if len(ports) > 0 {
		lines = append(lines, "  "+strings.Join(ports, ",\n  "))
	}
	lines = append(lines, ");\n")

	for _, sig := range wires {
		lines = append(lines, "  wire"+signalDecl(sig)+";")
	}
	if len(wires) > 0 {
		lines = append(lines, "")
	}

	for _, inst := range p.Instances() {
		mod := p.ModuleOf(inst)
		lines = append(lines, fmt.Sprintf("  // Source: %s", mod.Source))

		var paramConn string
		if len(mod.Params) > 0 {
			var paramStrs []string
			for _, param := range mod.Params {
				value := p.ParameterValue(inst, param.Name)
				paramStrs = append(paramStrs, fmt.Sprintf(".%s(%s)", param.Name, value))
			}
			paramConn = " #(\n    " + strings.Join(paramStrs, ",\n    ") + "\n  )"
		}

		var portStrs []string
		for _, port := range mod.Ports {
			conn := inst.Conns[port.Name]
			if conn.Kind == design.ConnUnset || conn.Signal == "" {
				continue
			}
			portStrs = append(portStrs, fmt.Sprintf(".%s(%s)", port.Name, conn.Signal))
		}

		lines = append(lines, fmt.Sprintf("  %s%s %s (", mod.Name, paramConn, inst.Name))
		if len(portStrs) > 0 {
			lines = append(lines, "    "+strings.Join(portStrs, ",\n    "))
		}
		lines = append(lines, "  );\n")
	}

	lines = append(lines, "endmodule")
	return strings.Join(lines, "\n"), nil
}

// signalDecl renders the width fragment, signal name and unpacked
// dimensions of one top-level declaration. The width fragment, when
// present, goes before the name; unpacked dimensions go after it.
func signalDecl(sig topSignal) string {
	frag := vlog.NormalizeWidth(sig.width)
	if frag != "" {
		frag = " " + frag
	}
	return frag + " " + sig.name + vlog.NormalizeDims(sig.dims)
}
