// Package testutil provides shared test helpers for checking how records
// are encoded for output.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// IntPtr returns a pointer to i, for optional revision fields.
func IntPtr(i int) *int {
	return &i
}

// AssertYAMLRoundTrip marshals v to YAML and back, failing on any
// difference.
func AssertYAMLRoundTrip[T any](t *testing.T, original T) {
	t.Helper()
	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var decoded T
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v\n%s", err, data)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

// JSONFields encodes v as a JSON object and returns its top-level fields.
func JSONFields(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("%s is not a JSON object: %v", data, err)
	}
	return fields
}

// AssertJSONField fails unless v encodes field with exactly the JSON text
// want, e.g. `null` or `"edit"`.
func AssertJSONField(t *testing.T, v any, field, want string) {
	t.Helper()
	got, ok := JSONFields(t, v)[field]
	if !ok {
		t.Errorf("JSON of %T has no field %q", v, field)
		return
	}
	if string(got) != want {
		t.Errorf("JSON field %q = %s, want %s", field, got, want)
	}
}

// AssertJSONOmitsField fails if v encodes field.
func AssertJSONOmitsField(t *testing.T, v any, field string) {
	t.Helper()
	if got, ok := JSONFields(t, v)[field]; ok {
		t.Errorf("JSON of %T has field %q = %s, want it omitted", v, field, got)
	}
}
