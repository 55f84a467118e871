package jsonschema

import (
	"sort"

	"github.com/reoring/wireshape/shape"
)

// FromShape projects a descriptor graph into a JSON Schema document. Named
// records land in $defs and are referenced, which keeps recursive shapes
// expressible; unnamed records are inlined. Override hooks are assumed to be
// shape-preserving value adapters, so the base descriptor's schema stands.
func FromShape(d shape.Descriptor) (*Schema, error) {
	c := &converter{defs: make(map[string]*Schema), owner: make(map[string]*shape.Record)}
	root, err := c.convert(d)
	if err != nil {
		return nil, err
	}
	if len(c.defs) > 0 {
		root.Defs = c.defs
	}
	return root, nil
}

type converter struct {
	defs map[string]*Schema
	// owner tracks which record claimed each $defs name; a second distinct
	// record under the same name would silently shadow the first.
	owner map[string]*shape.Record
}

func (c *converter) convert(d shape.Descriptor) (*Schema, error) {
	switch t := d.(type) {
	case *shape.Integer:
		s := &Schema{Type: "integer"}
		if t.Min != nil {
			s.Minimum = floatPtr(float64(*t.Min))
		}
		if t.Max != nil {
			s.Maximum = floatPtr(float64(*t.Max))
		}
		return s, nil
	case *shape.Float:
		return &Schema{Type: "number", Minimum: t.Min, Maximum: t.Max}, nil
	case *shape.Decimal:
		// carried as a string on the wire; bounds are enforced by consumers
		return &Schema{AnyOf: []*Schema{{Type: "string"}, {Type: "number"}}}, nil
	case *shape.String:
		return &Schema{Type: "string", MinLength: t.MinLen, MaxLength: t.MaxLen}, nil
	case *shape.Boolean:
		return &Schema{Type: "boolean"}, nil
	case *shape.UUID:
		return &Schema{Type: "string", Format: "uuid"}, nil
	case *shape.Bytes:
		return &Schema{Type: "string", Format: "binary"}, nil
	case *shape.Time:
		return &Schema{Type: "string", Format: "time"}, nil
	case *shape.Date:
		return &Schema{Type: "string", Format: "date"}, nil
	case *shape.DateTime:
		return &Schema{Type: "string", Format: "date-time"}, nil
	case *shape.Any:
		return &Schema{}, nil
	case *shape.Literal:
		return &Schema{Enum: append([]any(nil), t.Values...)}, nil
	case *shape.Enum:
		return &Schema{Enum: append([]any(nil), t.Values...)}, nil
	case *shape.Optional:
		inner, err := c.convert(t.Inner)
		if err != nil {
			return nil, err
		}
		return &Schema{AnyOf: []*Schema{inner, {Type: "null"}}}, nil
	case *shape.Array:
		item, err := c.convert(t.Item)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: item}, nil
	case *shape.Tuple:
		items := make([]*Schema, len(t.Items))
		for i, it := range t.Items {
			s, err := c.convert(it)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		n := len(items)
		return &Schema{Type: "array", PrefixItems: items, MinItems: &n, MaxItems: &n}, nil
	case *shape.Dictionary:
		value, err := c.convert(t.Value)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: value}, nil
	case *shape.Union:
		tags := make([]string, 0, len(t.Branches))
		for tag := range t.Branches {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		oneOf := make([]*Schema, 0, len(tags))
		for _, tag := range tags {
			s, err := c.convert(t.Branches[tag])
			if err != nil {
				return nil, err
			}
			oneOf = append(oneOf, s)
		}
		return &Schema{OneOf: oneOf}, nil
	case *shape.Record:
		return c.convertRecord(t)
	case *shape.Placeholder:
		rec, err := t.Resolve()
		if err != nil {
			return nil, err
		}
		return c.convertRecord(rec)
	default:
		return nil, shape.SchemaErrorf("cannot project descriptor kind %v to a schema", d.Kind())
	}
}

func (c *converter) convertRecord(rec *shape.Record) (*Schema, error) {
	if rec.Name == "" {
		return c.recordBody(rec)
	}
	if prev, ok := c.owner[rec.Name]; ok {
		if prev != rec {
			return nil, shape.SchemaErrorf("two distinct records share the name %q", rec.Name)
		}
	} else {
		c.owner[rec.Name] = rec
		body, err := c.recordBody(rec)
		if err != nil {
			return nil, err
		}
		c.defs[rec.Name] = body
	}
	return &Schema{Ref: "#/$defs/" + rec.Name}, nil
}

func (c *converter) recordBody(rec *shape.Record) (*Schema, error) {
	props := make(map[string]*Schema, len(rec.Fields))
	var required []string
	for _, f := range rec.Fields {
		wireKey := f.WireKey
		if wireKey == "" {
			wireKey = f.Name
		}
		fs, err := c.convert(f.Type)
		if err != nil {
			return nil, err
		}
		props[wireKey] = fs
		if f.Required {
			required = append(required, wireKey)
		}
	}
	sort.Strings(required)
	return &Schema{Type: "object", Properties: props, Required: required}, nil
}

func floatPtr(f float64) *float64 { return &f }
