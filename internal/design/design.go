// Package design holds the in-memory model of a project: the module
// library, the instantiated modules, and their connections. Every
// mutation goes through a Project method so the directionality and
// uniqueness invariants hold at all times.
package design

// Port directions as they appear in the source.
const (
	DirInput  = "input"
	DirOutput = "output"
	DirInout  = "inout"
)

// Connection kinds a port can be bound to in the generated top module.
const (
	ConnUnset  = ""
	ConnInput  = "input"
	ConnOutput = "output"
	ConnWire   = "wire"
)

// Port is a named signal terminal of a module. Width is a width
// specification: empty for a scalar, a decimal literal, an opaque
// expression, or an explicit msb:lsb range. Dims holds the additional
// dimensions of a multi-dimensional port, innermost-declared first.
type Port struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Kind      string   `json:"kind"` // wire, logic or reg
	Width     string   `json:"width"`
	Dims      []string `json:"dims,omitempty"`
}

// Parameter is an overridable compile-time value of a module. Default
// is kept as opaque text and never evaluated.
type Parameter struct {
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"`
	Default string   `json:"default"`
	Dims    []string `json:"dims,omitempty"`
}

// Module is a parsed module descriptor. Ports and Params keep their
// declaration order; Macros holds raw `define name/body pairs.
type Module struct {
	Name   string            `json:"name"`
	Source string            `json:"source"`
	Ports  []Port            `json:"ports"`
	Params []Parameter       `json:"parameters"`
	Macros map[string]string `json:"macros,omitempty"`

	// Stale marks a module restored from a snapshot whose source file
	// is no longer readable. The descriptor is still fully usable.
	Stale bool `json:"-"`
}

// PortByName returns the named port, or nil.
func (m *Module) PortByName(name string) *Port {
	for i := range m.Ports {
		if m.Ports[i].Name == name {
			return &m.Ports[i]
		}
	}
	return nil
}

// ParamByName returns the named parameter, or nil.
func (m *Module) ParamByName(name string) *Parameter {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i]
		}
	}
	return nil
}

// Connection binds one instance port to a top-level signal. An unset
// connection has Kind == ConnUnset and an empty signal.
type Connection struct {
	Kind   string `json:"kind"`
	Signal string `json:"signal"`
}

// Instance is a named usage of a module. Conns always has exactly one
// entry per port of the referenced module; Params holds overrides and
// is empty for parameters left at their default.
type Instance struct {
	Name   string
	Module string
	Conns  map[string]Connection
	Params map[string]string
}

// Project owns the module library and the instance set. The zero
// value is not usable; call NewProject.
type Project struct {
	Top string

	modules   map[string]*Module
	instances map[string]*Instance

	// insertion order, preserved across save/load so that generation
	// is reproducible
	moduleOrder   []string
	instanceOrder []string
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{
		modules:   make(map[string]*Module),
		instances: make(map[string]*Instance),
	}
}

// Modules returns the module library in insertion order.
func (p *Project) Modules() []*Module {
	out := make([]*Module, 0, len(p.moduleOrder))
	for _, name := range p.moduleOrder {
		out = append(out, p.modules[name])
	}
	return out
}

// Instances returns all instances in insertion order.
func (p *Project) Instances() []*Instance {
	out := make([]*Instance, 0, len(p.instanceOrder))
	for _, name := range p.instanceOrder {
		out = append(out, p.instances[name])
	}
	return out
}

// Module looks up a module by name.
func (p *Project) Module(name string) (*Module, bool) {
	m, ok := p.modules[name]
	return m, ok
}

// Instance looks up an instance by name.
func (p *Project) Instance(name string) (*Instance, bool) {
	inst, ok := p.instances[name]
	return inst, ok
}

// ModuleOf returns the module an instance refers to.
func (p *Project) ModuleOf(inst *Instance) *Module {
	return p.modules[inst.Module]
}

// instancesOf lists the names of instances referencing a module.
func (p *Project) instancesOf(module string) []string {
	var names []string
	for _, name := range p.instanceOrder {
		if p.instances[name].Module == module {
			names = append(names, name)
		}
	}
	return names
}

// AddModule inserts a parsed module into the library. A module whose
// name is already taken is rejected, unless the existing module was
// parsed from the same source path: that case is a refresh, which
// replaces ports, parameters and macros in place and re-syncs the
// connection maps of every instance referencing the module.
func (p *Project) AddModule(m *Module) error {
	existing, ok := p.modules[m.Name]
	if !ok {
		p.modules[m.Name] = m
		p.moduleOrder = append(p.moduleOrder, m.Name)
		return nil
	}
	if existing.Source != m.Source {
		return &DuplicateNameError{Kind: "module", Name: m.Name}
	}
	return p.refresh(existing, m)
}

// RefreshModule replaces a module's attributes with a re-parsed
// descriptor, preserving its identity and its instances.
func (p *Project) RefreshModule(name string, parsed *Module) error {
	existing, ok := p.modules[name]
	if !ok {
		return &UnknownModuleError{Name: name}
	}
	return p.refresh(existing, parsed)
}

func (p *Project) refresh(existing, parsed *Module) error {
	existing.Source = parsed.Source
	existing.Ports = parsed.Ports
	existing.Params = parsed.Params
	existing.Macros = parsed.Macros
	existing.Stale = false

	// Keep every instance's connection map keyed by exactly the new
	// port set: removed ports drop their connections, added ports get
	// an unset connection. Overrides for removed parameters are
	// dropped as well.
	for _, name := range p.instancesOf(existing.Name) {
		inst := p.instances[name]
		conns := make(map[string]Connection, len(existing.Ports))
		for _, port := range existing.Ports {
			conns[port.Name] = inst.Conns[port.Name]
		}
		inst.Conns = conns
		for pname := range inst.Params {
			if existing.ParamByName(pname) == nil {
				delete(inst.Params, pname)
			}
		}
	}
	return nil
}

// RemoveModule deletes a module from the library. It fails while any
// instance still references the module.
func (p *Project) RemoveModule(name string) error {
	if _, ok := p.modules[name]; !ok {
		return &UnknownModuleError{Name: name}
	}
	if users := p.instancesOf(name); len(users) > 0 {
		return &InUseError{Module: name, Instances: users}
	}
	delete(p.modules, name)
	p.moduleOrder = removeName(p.moduleOrder, name)
	return nil
}

// Instantiate creates a named instance of a module. Every port starts
// with an unset connection and every parameter at its default.
func (p *Project) Instantiate(module, name string) (*Instance, error) {
	m, ok := p.modules[module]
	if !ok {
		return nil, &UnknownModuleError{Name: module}
	}
	if _, taken := p.instances[name]; taken {
		return nil, &DuplicateNameError{Kind: "instance", Name: name}
	}
	inst := &Instance{
		Name:   name,
		Module: module,
		Conns:  make(map[string]Connection, len(m.Ports)),
		Params: make(map[string]string),
	}
	for _, port := range m.Ports {
		inst.Conns[port.Name] = Connection{}
	}
	p.instances[name] = inst
	p.instanceOrder = append(p.instanceOrder, name)
	return inst, nil
}

// RemoveInstance deletes an instance and, with it, all of its
// connections. Connections are owned by the instance, so no further
// validation is needed.
func (p *Project) RemoveInstance(name string) error {
	if _, ok := p.instances[name]; !ok {
		return &UnknownInstanceError{Name: name}
	}
	delete(p.instances, name)
	p.instanceOrder = removeName(p.instanceOrder, name)
	return nil
}

// RenameInstance changes an instance's name, preserving all
// connections and parameter overrides.
func (p *Project) RenameInstance(oldName, newName string) error {
	inst, ok := p.instances[oldName]
	if !ok {
		return &UnknownInstanceError{Name: oldName}
	}
	if oldName == newName {
		return nil
	}
	if _, taken := p.instances[newName]; taken {
		return &DuplicateNameError{Kind: "instance", Name: newName}
	}
	delete(p.instances, oldName)
	inst.Name = newName
	p.instances[newName] = inst
	for i, name := range p.instanceOrder {
		if name == oldName {
			p.instanceOrder[i] = newName
		}
	}
	return nil
}

// SetConnection binds an instance port to a signal. The port's
// declared direction restricts the connection kind: input ports take
// input or wire, output ports take output or wire, inout ports take
// any kind. The generator trusts this check and does no direction
// checking of its own.
func (p *Project) SetConnection(instance, port, kind, signal string) error {
	inst, ok := p.instances[instance]
	if !ok {
		return &UnknownInstanceError{Name: instance}
	}
	decl := p.modules[inst.Module].PortByName(port)
	if decl == nil {
		return &UnknownPortError{Instance: instance, Port: port}
	}
	switch kind {
	case ConnInput, ConnOutput, ConnWire:
	default:
		return &UnknownConnectionKindError{Kind: kind}
	}
	if signal == "" {
		return &EmptySignalError{Instance: instance, Port: port}
	}
	if !directionAllows(decl.Direction, kind) {
		return &DirectionMismatchError{
			Instance:  instance,
			Port:      port,
			Direction: decl.Direction,
			Kind:      kind,
		}
	}
	inst.Conns[port] = Connection{Kind: kind, Signal: signal}
	return nil
}

// ClearConnection resets an instance port to unset.
func (p *Project) ClearConnection(instance, port string) error {
	inst, ok := p.instances[instance]
	if !ok {
		return &UnknownInstanceError{Name: instance}
	}
	if p.modules[inst.Module].PortByName(port) == nil {
		return &UnknownPortError{Instance: instance, Port: port}
	}
	inst.Conns[port] = Connection{}
	return nil
}

func directionAllows(direction, kind string) bool {
	switch direction {
	case DirInput:
		return kind == ConnInput || kind == ConnWire
	case DirOutput:
		return kind == ConnOutput || kind == ConnWire
	default: // inout
		return true
	}
}

// SetParameterOverride records an override value for a declared
// parameter of the instance's module.
func (p *Project) SetParameterOverride(instance, name, value string) error {
	inst, ok := p.instances[instance]
	if !ok {
		return &UnknownInstanceError{Name: instance}
	}
	if p.modules[inst.Module].ParamByName(name) == nil {
		return &UnknownParameterError{Instance: instance, Name: name}
	}
	inst.Params[name] = value
	return nil
}

// ParameterValue returns the effective value of a parameter on an
// instance: the override if one is set, the declared default
// otherwise.
func (p *Project) ParameterValue(inst *Instance, name string) string {
	if v, ok := inst.Params[name]; ok {
		return v
	}
	if param := p.modules[inst.Module].ParamByName(name); param != nil {
		return param.Default
	}
	return ""
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
