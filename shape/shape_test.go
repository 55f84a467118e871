package shape_test

import (
	"strings"
	"testing"

	"github.com/reoring/wireshape/shape"
)

func TestRegistryResolve(t *testing.T) {
	reg := shape.NewRegistry()
	ph := reg.Placeholder("Node")

	// resolution before registration fails
	if _, err := ph.Resolve(); err == nil {
		t.Fatalf("expected resolve failure before registration")
	}

	node := &shape.Record{Name: "Node"}
	reg.Register(node)
	rec, err := ph.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec != node {
		t.Fatalf("resolve returned a different record")
	}
	if reg.Lookup("Node") != node {
		t.Fatalf("lookup mismatch")
	}
	if reg.Lookup("Missing") != nil {
		t.Fatalf("lookup of unknown name must be nil")
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := shape.SchemaErrorf("field %q is bad", "x")
	if !strings.Contains(err.Error(), "wireshape: schema error:") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), `field "x" is bad`) {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWithOverride(t *testing.T) {
	o := &shape.Override{Dump: func(v any) (any, error) { return v, nil }}
	d := shape.WithOverride(&shape.String{MinLen: intPtr(1)}, o)
	if d.Custom() != o {
		t.Fatalf("override not attached")
	}
	if d.MinLen == nil || *d.MinLen != 1 {
		t.Fatalf("WithOverride must return the same concrete descriptor")
	}
	if (&shape.Override{}).Empty() != true {
		t.Fatalf("zero override must report empty")
	}
	if o.Empty() {
		t.Fatalf("override with a dump hook is not empty")
	}
}

func TestKinds(t *testing.T) {
	cases := []struct {
		d    shape.Descriptor
		want shape.Kind
	}{
		{&shape.Integer{}, shape.KindInteger},
		{&shape.Decimal{}, shape.KindDecimal},
		{&shape.Optional{Inner: &shape.Any{}}, shape.KindOptional},
		{&shape.Union{}, shape.KindUnion},
		{&shape.Record{}, shape.KindRecord},
		{shape.NewRegistry().Placeholder("X"), shape.KindPlaceholder},
	}
	for _, tc := range cases {
		if tc.d.Kind() != tc.want {
			t.Fatalf("%T Kind = %v, want %v", tc.d, tc.d.Kind(), tc.want)
		}
	}
}

func intPtr(n int) *int { return &n }
