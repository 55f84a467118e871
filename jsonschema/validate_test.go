package jsonschema_test

import (
	"encoding/json"
	"testing"

	"github.com/reoring/wireshape/jsonschema"
	"github.com/reoring/wireshape/shape"
)

func orderSchema(t *testing.T) *jsonschema.Compiled {
	t.Helper()
	min := int64(0)
	rec := &shape.Record{
		Name: "Order",
		Fields: []shape.Field{
			{Name: "id", WireKey: "id", Type: &shape.Integer{Min: &min}, Required: true},
			{Name: "tag", WireKey: "tag", Type: &shape.Literal{Values: []any{"x", "y"}}, Required: true},
			{Name: "qty", WireKey: "qty", Type: &shape.Integer{Min: &min}, Required: true},
		},
	}
	doc, err := jsonschema.FromShape(rec)
	if err != nil {
		t.Fatalf("FromShape: %v", err)
	}
	c, err := jsonschema.Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return c
}

func TestIsValid(t *testing.T) {
	c := orderSchema(t)
	ok := map[string]any{"id": json.Number("1"), "tag": "x", "qty": json.Number("2")}
	if !c.IsValid(ok) {
		t.Fatalf("conforming value reported invalid")
	}
	if c.IsValid(map[string]any{"id": json.Number("-1"), "tag": "x", "qty": json.Number("2")}) {
		t.Fatalf("violating value reported valid")
	}
	if err := c.Validate(ok); err != nil {
		t.Fatalf("Validate on conforming value: %v", err)
	}
}

func TestValidateBatchReportsEveryViolation(t *testing.T) {
	c := orderSchema(t)
	bad := map[string]any{"id": json.Number("-1"), "tag": "z", "qty": "nope"}
	err := c.Validate(bad)
	ve, ok := err.(*jsonschema.SchemaValidationError)
	if !ok {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(ve.Errors), ve.Errors)
	}
	paths := map[string]bool{}
	for _, it := range ve.Errors {
		paths[it.InstancePath] = true
	}
	for _, p := range []string{"id", "tag", "qty"} {
		if !paths[p] {
			t.Fatalf("missing violation at %q: %v", p, ve.Errors)
		}
	}
}

func TestValidateFirstReportsExactlyOne(t *testing.T) {
	c := orderSchema(t)
	bad := map[string]any{"id": json.Number("-1"), "tag": "z", "qty": "nope"}
	err := c.ValidateFirst(bad)
	ve, ok := err.(*jsonschema.SchemaValidationError)
	if !ok {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if len(ve.Errors) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d", len(ve.Errors))
	}
}

func TestCompileBytesRejectsBrokenDocument(t *testing.T) {
	if _, err := jsonschema.CompileBytes([]byte(`{"type": 12}`)); err == nil {
		t.Fatalf("expected compile failure")
	}
}

func TestCompileYAML(t *testing.T) {
	doc := []byte("type: object\nrequired: [id]\nproperties:\n  id:\n    type: integer\n")
	c, err := jsonschema.CompileYAML(doc)
	if err != nil {
		t.Fatalf("CompileYAML: %v", err)
	}
	if !c.IsValid(map[string]any{"id": json.Number("1")}) {
		t.Fatalf("conforming value reported invalid")
	}
	if c.IsValid(map[string]any{}) {
		t.Fatalf("missing required key reported valid")
	}
	if _, err := jsonschema.CompileYAML([]byte(":\n:bad")); err == nil {
		t.Fatalf("expected YAML parse failure")
	}
}

func TestErrorSummary(t *testing.T) {
	e := &jsonschema.SchemaValidationError{Errors: []jsonschema.ErrorItem{
		{Message: "value must be >= 0", InstancePath: "id"},
	}}
	if got := e.Error(); got != `value must be >= 0 at "id"` {
		t.Fatalf("Error() = %q", got)
	}
}
