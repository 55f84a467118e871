package encoder

import (
	"encoding/json"
	"strconv"

	"github.com/reoring/wireshape/shape"
)

// optionalEncoder admits nil on both sides and otherwise delegates.
type optionalEncoder struct {
	inner Encoder
}

func (e *optionalEncoder) Dump(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return e.inner.Dump(v)
}

func (e *optionalEncoder) Load(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return e.inner.Load(v)
}

type arrayEncoder struct {
	item Encoder
}

func (e *arrayEncoder) Dump(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected sequence, got %T", v)
	}
	out := make([]any, len(items))
	for i, item := range items {
		w, err := e.item.Dump(item)
		if err != nil {
			return nil, prefixed(err, strconv.Itoa(i))
		}
		out[i] = w
	}
	return out, nil
}

func (e *arrayEncoder) Load(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected sequence, got %T", v)
	}
	out := make([]any, len(items))
	for i, item := range items {
		sv, err := e.item.Load(item)
		if err != nil {
			return nil, prefixed(err, strconv.Itoa(i))
		}
		out[i] = sv
	}
	return out, nil
}

type tupleEncoder struct {
	items []Encoder
}

func (e *tupleEncoder) Dump(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected sequence, got %T", v)
	}
	if len(items) != len(e.items) {
		return nil, singleIssue(CodeInvalidArity, "expected %d items, got %d", len(e.items), len(items))
	}
	out := make([]any, len(items))
	for i, item := range items {
		w, err := e.items[i].Dump(item)
		if err != nil {
			return nil, prefixed(err, strconv.Itoa(i))
		}
		out[i] = w
	}
	return out, nil
}

func (e *tupleEncoder) Load(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected sequence, got %T", v)
	}
	if len(items) != len(e.items) {
		return nil, singleIssue(CodeInvalidArity, "expected %d items, got %d", len(e.items), len(items))
	}
	out := make([]any, len(items))
	for i, item := range items {
		sv, err := e.items[i].Load(item)
		if err != nil {
			return nil, prefixed(err, strconv.Itoa(i))
		}
		out[i] = sv
	}
	return out, nil
}

// keyEncoder adapts a codec to dictionary keys, which always arrive as the
// string they are rendered with on the wire. A codec that rejects the raw
// string gets the same text again as a number, which serves integer, float
// and decimal keys without per-kind cases.
type keyEncoder struct {
	inner Encoder
}

func (e keyEncoder) apply(v any, f func(any) (any, error)) (any, error) {
	out, err := f(v)
	if err == nil {
		return out, nil
	}
	if s, ok := v.(string); ok {
		if out, retryErr := f(json.Number(s)); retryErr == nil {
			return out, nil
		}
	}
	return nil, err
}

func (e keyEncoder) Dump(v any) (any, error) { return e.apply(v, e.inner.Dump) }
func (e keyEncoder) Load(v any) (any, error) { return e.apply(v, e.inner.Load) }

// dictEncoder maps entries through the key and value codecs. Wire keys are
// always strings; the key codec canonicalizes them (UUIDs, enum membership,
// numeric keys re-rendered from their parsed form).
type dictEncoder struct {
	key, value Encoder
	omitNone   bool
}

func (e *dictEncoder) Dump(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected mapping, got %T", v)
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		kw, err := e.key.Dump(k)
		if err != nil {
			return nil, prefixed(err, k)
		}
		ks, err := wireKeyString(kw)
		if err != nil {
			return nil, prefixed(err, k)
		}
		w, err := e.value.Dump(item)
		if err != nil {
			return nil, prefixed(err, k)
		}
		if e.omitNone && w == nil {
			continue
		}
		out[ks] = w
	}
	return out, nil
}

func (e *dictEncoder) Load(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected mapping, got %T", v)
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		kv, err := e.key.Load(k)
		if err != nil {
			return nil, prefixed(err, k)
		}
		ks, err := wireKeyString(kv)
		if err != nil {
			return nil, prefixed(err, k)
		}
		sv, err := e.value.Load(item)
		if err != nil {
			return nil, prefixed(err, k)
		}
		out[ks] = sv
	}
	return out, nil
}

func wireKeyString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case json.Number:
		return t.String(), nil
	case interface{ String() string }:
		return t.String(), nil
	default:
		return "", singleIssue(CodeInvalidType, "key is not string-renderable: %T", v)
	}
}

// field is the compiled form of shape.Field.
type field struct {
	name           string
	wireKey        string
	enc            Encoder
	required       bool
	def            any
	hasDef         bool
	defaultFactory func() any
}

// recordEncoder dumps by field wire key and loads with the
// required/default/default-factory policy. Structured records are maps keyed
// by field name; absence is a missing key, distinct from an explicit nil.
type recordEncoder struct {
	fields   []field
	omitNone bool
}

func (e *recordEncoder) Dump(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected record, got %T", v)
	}
	out := make(map[string]any, len(e.fields))
	for i := range e.fields {
		f := &e.fields[i]
		fv, present := m[f.name]
		if !present {
			if f.required {
				return nil, Issues{Issue{
					Path:    "/" + pointerEscaper.Replace(f.name),
					Code:    CodeRequired,
					Message: "missing required field " + f.name,
				}}
			}
			continue
		}
		w, err := f.enc.Dump(fv)
		if err != nil {
			return nil, prefixed(err, f.name)
		}
		if !f.required && e.omitNone && w == nil {
			continue
		}
		out[f.wireKey] = w
	}
	return out, nil
}

func (e *recordEncoder) Load(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected object, got %T", v)
	}
	out := make(map[string]any, len(e.fields))
	for i := range e.fields {
		f := &e.fields[i]
		wv, present := m[f.wireKey]
		if present {
			sv, err := f.enc.Load(wv)
			if err != nil {
				return nil, prefixed(err, f.wireKey)
			}
			out[f.name] = sv
			continue
		}
		if f.required {
			return nil, Issues{Issue{
				Path:    "/" + pointerEscaper.Replace(f.wireKey),
				Code:    CodeRequired,
				Message: "missing required field " + f.wireKey,
			}}
		}
		if f.hasDef {
			out[f.name] = f.def
			continue
		}
		if f.defaultFactory != nil {
			out[f.name] = f.defaultFactory()
		}
		// absent and optional without default: stays absent
	}
	return out, nil
}

// unionEncoder dispatches by discriminator: on dump the tag is read from the
// structured value (the value was produced by exactly one branch), on load
// from the wire key.
type unionEncoder struct {
	branches map[string]Encoder
	dumpKey  string
	loadKey  string
}

func (e *unionEncoder) Dump(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected record, got %T", v)
	}
	tv, present := m[e.dumpKey]
	if !present {
		return nil, Issues{Issue{Path: "/" + e.dumpKey, Code: CodeDiscriminatorMissing, Message: "discriminator missing"}}
	}
	tag, ok := tv.(string)
	if !ok {
		return nil, Issues{Issue{Path: "/" + e.dumpKey, Code: CodeInvalidType, Message: "discriminator must be a string"}}
	}
	branch, ok := e.branches[tag]
	if !ok {
		return nil, Issues{Issue{Path: "/" + e.dumpKey, Code: CodeDiscriminatorUnknown, Message: "no branch for tag '" + tag + "'"}}
	}
	return branch.Dump(v)
}

func (e *unionEncoder) Load(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected object, got %T", v)
	}
	tv, present := m[e.loadKey]
	if !present {
		return nil, Issues{Issue{Path: "/" + e.loadKey, Code: CodeDiscriminatorMissing, Message: "discriminator missing"}}
	}
	tag, ok := tv.(string)
	if !ok {
		return nil, Issues{Issue{Path: "/" + e.loadKey, Code: CodeInvalidType, Message: "discriminator must be a string"}}
	}
	branch, ok := e.branches[tag]
	if !ok {
		return nil, Issues{Issue{Path: "/" + e.loadKey, Code: CodeDiscriminatorUnknown, Message: "no branch for tag '" + tag + "'"}}
	}
	return branch.Load(v)
}

// cell is the shared slot a lazy encoder dereferences. It is written exactly
// once, when its record finishes compiling.
type cell struct {
	enc Encoder
}

type lazyEncoder struct {
	cell *cell
}

func (e *lazyEncoder) Dump(v any) (any, error) {
	if e.cell.enc == nil {
		return nil, shape.SchemaErrorf("recursive codec used before its target finished compiling")
	}
	return e.cell.enc.Dump(v)
}

func (e *lazyEncoder) Load(v any) (any, error) {
	if e.cell.enc == nil {
		return nil, shape.SchemaErrorf("recursive codec used before its target finished compiling")
	}
	return e.cell.enc.Load(v)
}

// overrideEncoder applies the custom hooks around the inner codec: Dump hook
// before the inner dump, Load hook after the inner load.
type overrideEncoder struct {
	inner Encoder
	dump  func(any) (any, error)
	load  func(any) (any, error)
}

func (e *overrideEncoder) Dump(v any) (any, error) {
	if e.dump != nil {
		nv, err := e.dump(v)
		if err != nil {
			return nil, err
		}
		v = nv
	}
	return e.inner.Dump(v)
}

func (e *overrideEncoder) Load(v any) (any, error) {
	sv, err := e.inner.Load(v)
	if err != nil {
		return nil, err
	}
	if e.load != nil {
		return e.load(sv)
	}
	return sv, nil
}
