// Package validator checks decoded snapshot payloads against the CUE
// schema contract before the design graph is rebuilt from them. A
// payload that fails here is reported as corrupt rather than being
// allowed to half-populate a project.
package validator

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator validates snapshot JSON against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a Validator from the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateJSON checks that jsonBytes conforms to the #Snapshot
// definition. Returns nil if valid, or an error explaining what
// failed.
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling snapshot as CUE: %w", dataValue.Err())
	}

	snapshotDef := v.schema.LookupPath(cue.ParsePath("#Snapshot"))
	if snapshotDef.Err() != nil {
		return fmt.Errorf("looking up #Snapshot definition: %w", snapshotDef.Err())
	}

	unified := snapshotDef.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("snapshot schema validation failed: %w", err)
	}

	return nil
}
