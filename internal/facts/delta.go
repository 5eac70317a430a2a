package facts

// Delta captures added and removed fact rows between two snapshots of
// the design. A module refresh reports its port and parameter changes
// through this.
type Delta struct {
	Added   Tables `json:"added"`
	Removed Tables `json:"removed"`
}

// Empty reports whether the delta holds no rows at all.
func (d Delta) Empty() bool {
	return len(d.Added.Modules) == 0 && len(d.Added.Ports) == 0 &&
		len(d.Added.Parameters) == 0 && len(d.Added.Instances) == 0 &&
		len(d.Added.Connections) == 0 &&
		len(d.Removed.Modules) == 0 && len(d.Removed.Ports) == 0 &&
		len(d.Removed.Parameters) == 0 && len(d.Removed.Instances) == 0 &&
		len(d.Removed.Connections) == 0
}

// ComputeDelta computes row-level additions and removals between two
// fact snapshots.
func ComputeDelta(prev, next Tables) Delta {
	return Delta{
		Added:   diffTables(prev, next),
		Removed: diffTables(next, prev),
	}
}

func diffTables(from, to Tables) Tables {
	out := emptyTables()
	out.Modules = diffModuleRows(from.Modules, to.Modules)
	out.Ports = diffPortRows(from.Ports, to.Ports)
	out.Parameters = diffParameterRows(from.Parameters, to.Parameters)
	out.Instances = diffInstanceRows(from.Instances, to.Instances)
	out.Connections = diffConnectionRows(from.Connections, to.Connections)
	return out
}

func diffModuleRows(from, to []ModuleRow) []ModuleRow {
	return diffRows(from, to, func(r ModuleRow) string {
		return r.Name + "|" + r.Source + "|" + boolKey(r.Stale)
	})
}

func diffPortRows(from, to []PortRow) []PortRow {
	return diffRows(from, to, func(r PortRow) string {
		return r.Module + "|" + r.Name + "|" + r.Direction + "|" + r.Kind + "|" + r.Width
	})
}

func diffParameterRows(from, to []ParameterRow) []ParameterRow {
	return diffRows(from, to, func(r ParameterRow) string {
		return r.Module + "|" + r.Name + "|" + r.Type + "|" + r.Default
	})
}

func diffInstanceRows(from, to []InstanceRow) []InstanceRow {
	return diffRows(from, to, func(r InstanceRow) string {
		return r.Name + "|" + r.Module
	})
}

func diffConnectionRows(from, to []ConnectionRow) []ConnectionRow {
	return diffRows(from, to, func(r ConnectionRow) string {
		return r.Instance + "|" + r.Port + "|" + r.Kind + "|" + r.Signal
	})
}

func diffRows[T any](from, to []T, key func(T) string) []T {
	fromSet := make(map[string]struct{}, len(from))
	for _, row := range from {
		fromSet[key(row)] = struct{}{}
	}
	diff := []T{}
	for _, row := range to {
		if _, ok := fromSet[key(row)]; !ok {
			diff = append(diff, row)
		}
	}
	return diff
}

func boolKey(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
