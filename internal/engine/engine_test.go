package engine_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	eng "github.com/reoring/wireshape/internal/engine"
	"github.com/reoring/wireshape/source/gojson"
)

func TestDecodeAnyFromSource(t *testing.T) {
	src := gojson.NewBytes([]byte(`{"a":1,"b":[true,null,"x"],"c":{"d":2.5}}`))
	v, err := eng.DecodeAnyFromSource(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": json.Number("1"),
		"b": []any{true, nil, "x"},
		"c": map[string]any{"d": json.Number("2.5")},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("decode = %#v, want %#v", v, want)
	}
}

func TestDecodeKeepsNumberPrecision(t *testing.T) {
	src := gojson.NewBytes([]byte(`9007199254740993`))
	v, err := eng.DecodeAnyFromSource(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, ok := v.(json.Number)
	if !ok || string(n) != "9007199254740993" {
		t.Fatalf("decode = %#v, want json.Number 9007199254740993", v)
	}
}

func TestDepthLimitAllowsExactLimit(t *testing.T) {
	doc := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	src := eng.WrapWithDepthLimit(gojson.NewBytes([]byte(doc)), 5)
	if _, err := eng.DecodeAnyFromSource(src); err != nil {
		t.Fatalf("decode at exact limit: %v", err)
	}
}

func TestDepthLimitRejectsOneBeyond(t *testing.T) {
	doc := strings.Repeat("[", 6) + strings.Repeat("]", 6)
	src := eng.WrapWithDepthLimit(gojson.NewBytes([]byte(doc)), 5)
	_, err := eng.DecodeAnyFromSource(src)
	var deep eng.ErrDepthExceeded
	if !errors.As(err, &deep) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if deep.Limit != 5 {
		t.Fatalf("Limit = %d, want 5", deep.Limit)
	}
}

func TestDepthLimitDisabledForZero(t *testing.T) {
	doc := strings.Repeat("[", 10) + strings.Repeat("]", 10)
	src := eng.WrapWithDepthLimit(gojson.NewBytes([]byte(doc)), 0)
	if _, err := eng.DecodeAnyFromSource(src); err != nil {
		t.Fatalf("decode with disabled limit: %v", err)
	}
}

func TestMeasureDepth(t *testing.T) {
	cases := []struct {
		v    any
		want int
	}{
		{nil, 0},
		{"x", 0},
		{map[string]any{}, 1},
		{[]any{[]any{1}}, 2},
		{map[string]any{"a": []any{map[string]any{"b": 1}}}, 3},
	}
	for _, tc := range cases {
		if got := eng.MeasureDepth(tc.v); got != tc.want {
			t.Fatalf("MeasureDepth(%#v) = %d, want %d", tc.v, got, tc.want)
		}
	}
}
