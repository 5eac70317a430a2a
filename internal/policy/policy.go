// Package policy evaluates design-rule checks against a project's
// fact tables using embedded OPA rego rules.
package policy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/hwkit/vtop/internal/facts"
)

//go:embed rules.rego
var rulesSource string

// Engine evaluates the embedded design rules.
type Engine struct {
	queries map[string]rego.PreparedEvalQuery

	// severity overrides by rule name: "off" drops the rule entirely,
	// any other value replaces the built-in severity
	overrides map[string]string
}

// Violation is one design-rule finding.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Instance string `json:"instance,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Message  string `json:"message"`
}

// Result contains the evaluation results.
type Result struct {
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
}

// Summary provides aggregate counts.
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// New creates an engine with the embedded rules. overrides may be
// nil.
func New(overrides map[string]string) (*Engine, error) {
	engine := &Engine{
		queries:   make(map[string]rego.PreparedEvalQuery),
		overrides: overrides,
	}

	module := rego.Module("rules.rego", rulesSource)

	query, err := rego.New(module, rego.Query("data.vtop.design.all_violations")).
		PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}
	engine.queries["violations"] = query

	return engine, nil
}

// Evaluate runs the design rules against the fact tables.
func (e *Engine) Evaluate(ctx context.Context, t facts.Tables) (*Result, error) {
	inputMap, err := structToMap(t)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	rs, err := e.queries["violations"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}

	result := &Result{Violations: []Violation{}}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		raw, ok := rs[0].Expressions[0].Value.([]interface{})
		if ok {
			for _, v := range raw {
				vmap, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				violation := Violation{
					Rule:     getString(vmap, "rule"),
					Severity: getString(vmap, "severity"),
					Instance: getString(vmap, "instance"),
					Detail:   getString(vmap, "detail"),
					Message:  getString(vmap, "message"),
				}
				if sev, ok := e.overrides[violation.Rule]; ok {
					if sev == "off" {
						continue
					}
					violation.Severity = sev
				}
				result.Violations = append(result.Violations, violation)
			}
		}
	}

	for _, v := range result.Violations {
		result.Summary.TotalViolations++
		switch v.Severity {
		case "error":
			result.Summary.Errors++
		case "warning":
			result.Summary.Warnings++
		default:
			result.Summary.Info++
		}
	}
	return result, nil
}

func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
