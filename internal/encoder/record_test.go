package encoder_test

import (
	"reflect"
	"testing"

	"github.com/reoring/wireshape/internal/encoder"
	"github.com/reoring/wireshape/shape"
)

func userRecord(omitNone bool) *shape.Record {
	return &shape.Record{
		Name:     "User",
		OmitNone: omitNone,
		Fields: []shape.Field{
			{Name: "id", WireKey: "id", Type: &shape.Integer{}, Required: true},
			{Name: "nick", WireKey: "nickname", Type: &shape.Optional{Inner: &shape.String{}}},
		},
	}
}

func TestRecordDumpRenamesWireKey(t *testing.T) {
	enc := mustCompile(t, userRecord(false))
	w, err := enc.Dump(map[string]any{"id": int64(1), "nick": "gopher"})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := map[string]any{"id": int64(1), "nickname": "gopher"}
	if !reflect.DeepEqual(w, want) {
		t.Fatalf("dump = %#v, want %#v", w, want)
	}
}

func TestRecordLoadAssignsAttributeName(t *testing.T) {
	enc := mustCompile(t, userRecord(false))
	v, err := enc.Load(map[string]any{"id": int64(1), "nickname": "gopher"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"id": int64(1), "nick": "gopher"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("load = %#v, want %#v", v, want)
	}
}

func TestRecordMissingRequired(t *testing.T) {
	enc := mustCompile(t, userRecord(false))
	_, err := enc.Load(map[string]any{"nickname": "gopher"})
	iss, ok := err.(encoder.Issues)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != encoder.CodeRequired || iss[0].Path != "/id" {
		t.Fatalf("got %+v", iss[0])
	}
	// dump side enforces presence of required attributes as well
	_, err = enc.Dump(map[string]any{"nick": "gopher"})
	if codeOf(t, err) != encoder.CodeRequired {
		t.Fatalf("expected required on dump, got %v", err)
	}
}

func TestRecordOmitNone(t *testing.T) {
	withNil := map[string]any{"id": int64(1), "nick": nil}

	enc := mustCompile(t, userRecord(true))
	w, err := enc.Dump(withNil)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if _, ok := w.(map[string]any)["nickname"]; ok {
		t.Fatalf("omit_none=true must drop the key entirely, got %#v", w)
	}

	enc = mustCompile(t, userRecord(false))
	w, err = enc.Dump(withNil)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if v, ok := w.(map[string]any)["nickname"]; !ok || v != nil {
		t.Fatalf("omit_none=false must emit an explicit null, got %#v", w)
	}
}

func TestRecordAbsentOptionalStaysAbsent(t *testing.T) {
	enc := mustCompile(t, userRecord(false))
	v, err := enc.Load(map[string]any{"id": int64(1)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := v.(map[string]any)["nick"]; ok {
		t.Fatalf("absent optional without default must stay absent, got %#v", v)
	}
}

func TestRecordStaticDefault(t *testing.T) {
	rec := &shape.Record{
		Name: "Settings",
		Fields: []shape.Field{
			{Name: "level", WireKey: "level", Type: &shape.Integer{}, Default: int64(3), HasDefault: true},
		},
	}
	enc := mustCompile(t, rec)
	v, err := enc.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v.(map[string]any)["level"] != int64(3) {
		t.Fatalf("expected default 3, got %#v", v)
	}
}

func TestRecordDefaultFactoryProducesFreshValues(t *testing.T) {
	rec := &shape.Record{
		Name: "Bag",
		Fields: []shape.Field{
			{Name: "items", WireKey: "items", Type: &shape.Array{Item: &shape.String{}}, DefaultFactory: func() any { return []any{} }},
		},
	}
	enc := mustCompile(t, rec)
	a, err := enc.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := enc.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sa := a.(map[string]any)["items"].([]any)
	sb := b.(map[string]any)["items"].([]any)
	sa = append(sa, "mutated")
	if len(sb) != 0 {
		t.Fatalf("factory defaults must be independent instances")
	}
	_ = sa
}

func TestRecordDuplicateWireKeyRejected(t *testing.T) {
	rec := &shape.Record{
		Name: "Bad",
		Fields: []shape.Field{
			{Name: "a", WireKey: "k", Type: &shape.Integer{}},
			{Name: "b", WireKey: "k", Type: &shape.Integer{}},
		},
	}
	if _, err := encoder.Compile(rec); err == nil {
		t.Fatalf("expected SchemaError for duplicate wire key")
	}
}

func TestRecordNestedIssuePath(t *testing.T) {
	rec := &shape.Record{
		Name: "Outer",
		Fields: []shape.Field{
			{Name: "items", WireKey: "items", Type: &shape.Array{Item: &shape.Integer{}}, Required: true},
		},
	}
	enc := mustCompile(t, rec)
	_, err := enc.Load(map[string]any{"items": []any{int64(1), "bad"}})
	iss, _ := err.(encoder.Issues)
	if len(iss) != 1 || iss[0].Path != "/items/1" {
		t.Fatalf("expected issue at /items/1, got %v", err)
	}
}
