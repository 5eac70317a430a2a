package design

import "fmt"

// DuplicateNameError reports a module or instance name that is
// already taken.
type DuplicateNameError struct {
	Kind string // "module" or "instance"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s name %q already exists", e.Kind, e.Name)
}

// UnknownModuleError reports a reference to a module not in the
// library.
type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %q", e.Name)
}

// UnknownInstanceError reports a reference to an instance that does
// not exist.
type UnknownInstanceError struct {
	Name string
}

func (e *UnknownInstanceError) Error() string {
	return fmt.Sprintf("unknown instance %q", e.Name)
}

// UnknownPortError reports a port name not declared on the instance's
// module.
type UnknownPortError struct {
	Instance string
	Port     string
}

func (e *UnknownPortError) Error() string {
	return fmt.Sprintf("instance %q has no port %q", e.Instance, e.Port)
}

// UnknownParameterError reports a parameter name not declared on the
// instance's module.
type UnknownParameterError struct {
	Instance string
	Name     string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("instance %q has no parameter %q", e.Instance, e.Name)
}

// UnknownConnectionKindError reports a connection kind outside
// input/output/wire.
type UnknownConnectionKindError struct {
	Kind string
}

func (e *UnknownConnectionKindError) Error() string {
	return fmt.Sprintf("unknown connection kind %q", e.Kind)
}

// EmptySignalError reports an attempt to choose a connection kind
// without a signal name.
type EmptySignalError struct {
	Instance string
	Port     string
}

func (e *EmptySignalError) Error() string {
	return fmt.Sprintf("connection on %s.%s needs a signal name", e.Instance, e.Port)
}

// DirectionMismatchError reports a connection kind that the port's
// declared direction does not allow.
type DirectionMismatchError struct {
	Instance  string
	Port      string
	Direction string
	Kind      string
}

func (e *DirectionMismatchError) Error() string {
	return fmt.Sprintf("port %s.%s is declared %s and cannot take a %s connection",
		e.Instance, e.Port, e.Direction, e.Kind)
}

// InUseError reports a module deletion blocked by live instances.
type InUseError struct {
	Module    string
	Instances []string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("module %q is used by %d instance(s): %v",
		e.Module, len(e.Instances), e.Instances)
}
