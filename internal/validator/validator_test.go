package validator

import "testing"

func TestValidateJSONAccepts(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tests := []struct {
		name string
		data string
	}{
		{"empty_project", `{"version":1,"top":"top","modules":[],"instances":[]}`},
		{"full_project", `{
			"version": 1,
			"top": "soc_top",
			"modules": [{
				"name": "m",
				"source": "m.v",
				"ports": [
					{"name": "a", "direction": "input", "kind": "wire", "width": "8"},
					{"name": "b", "direction": "output", "kind": "wire", "width": "", "dims": ["4"]}
				],
				"parameters": [{"name": "WIDTH", "type": "int", "default": "8"}],
				"macros": {"BUS": "16"}
			}],
			"instances": [{
				"name": "u1",
				"module": "m",
				"connections": [
					{"port": "a", "kind": "input", "signal": "data_in"},
					{"port": "b", "kind": "", "signal": ""}
				],
				"parameters": {"WIDTH": "32"}
			}]
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateJSON([]byte(tt.data)); err != nil {
				t.Errorf("ValidateJSON rejected valid data: %v", err)
			}
		})
	}
}

func TestValidateJSONRejects(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tests := []struct {
		name string
		data string
	}{
		{"bad_direction", `{"version":1,"top":"t","modules":[{"name":"m","source":"m.v","ports":[{"name":"a","direction":"sideways","kind":"wire","width":""}],"parameters":[]}],"instances":[]}`},
		{"version_zero", `{"version":0,"top":"t","modules":[],"instances":[]}`},
		{"empty_module_name", `{"version":1,"top":"t","modules":[{"name":"","source":"m.v","ports":[],"parameters":[]}],"instances":[]}`},
		{"kind_without_signal", `{"version":1,"top":"t","modules":[],"instances":[{"name":"u1","module":"m","connections":[{"port":"a","kind":"wire","signal":""}]}]}`},
		{"unknown_kind", `{"version":1,"top":"t","modules":[],"instances":[{"name":"u1","module":"m","connections":[{"port":"a","kind":"tristate","signal":"x"}]}]}`},
		{"not_json", `]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateJSON([]byte(tt.data)); err == nil {
				t.Errorf("ValidateJSON accepted invalid data")
			}
		})
	}
}
