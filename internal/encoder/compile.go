package encoder

import (
	"sort"

	"github.com/reoring/wireshape/shape"
)

// Compile turns a descriptor graph into an executable codec tree. The memo
// keyed by record identity breaks self-reference: a record registers a shared
// cell before compiling its fields, and any placeholder reached underneath
// compiles to a lazy node wrapping that cell. One indirection, not a copy, so
// finishing the record resolves every reference at once. Compilation visits
// each distinct record once regardless of cycle length.
func Compile(d shape.Descriptor) (Encoder, error) {
	c := &compiler{cells: make(map[*shape.Record]*cell)}
	return c.compile(d)
}

type compiler struct {
	cells map[*shape.Record]*cell
}

func (c *compiler) compile(d shape.Descriptor) (Encoder, error) {
	// records wrap their own overrides before the memo cell is written, so a
	// lazy reference observes the completed node, hooks included
	switch t := d.(type) {
	case *shape.Record:
		return c.compileRecord(t)
	case *shape.Placeholder:
		enc, err := c.compilePlaceholder(t)
		if err != nil {
			return nil, err
		}
		return wrapWithCustom(enc, t.Custom()), nil
	}
	base, err := c.compileBase(d)
	if err != nil {
		return nil, err
	}
	return wrapWithCustom(base, d.Custom()), nil
}

// wrapWithCustom wraps the base node only when a non-empty override is
// present, so the common case pays nothing.
func wrapWithCustom(e Encoder, o *shape.Override) Encoder {
	if o.Empty() {
		return e
	}
	return &overrideEncoder{inner: e, dump: o.Dump, load: o.Load}
}

func (c *compiler) compileBase(d shape.Descriptor) (Encoder, error) {
	switch t := d.(type) {
	case *shape.Integer:
		return intEncoder{}, nil
	case *shape.Float:
		return floatEncoder{}, nil
	case *shape.Decimal:
		return decimalEncoder{}, nil
	case *shape.String:
		return stringEncoder{}, nil
	case *shape.Boolean:
		return boolEncoder{}, nil
	case *shape.UUID:
		return uuidEncoder{}, nil
	case *shape.Bytes:
		return bytesEncoder{}, nil
	case *shape.Time:
		return timeEncoder{}, nil
	case *shape.Date:
		return dateEncoder{}, nil
	case *shape.DateTime:
		return dateTimeEncoder{}, nil
	case *shape.Any:
		return anyEncoder{}, nil
	case *shape.Literal:
		return c.compileEnum(t.Values)
	case *shape.Enum:
		return c.compileEnum(t.Values)
	case *shape.Optional:
		inner, err := c.compile(t.Inner)
		if err != nil {
			return nil, err
		}
		return &optionalEncoder{inner: inner}, nil
	case *shape.Array:
		item, err := c.compile(t.Item)
		if err != nil {
			return nil, err
		}
		return &arrayEncoder{item: item}, nil
	case *shape.Tuple:
		items := make([]Encoder, len(t.Items))
		for i, it := range t.Items {
			enc, err := c.compile(it)
			if err != nil {
				return nil, err
			}
			items[i] = enc
		}
		return &tupleEncoder{items: items}, nil
	case *shape.Dictionary:
		key, err := c.compile(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.compile(t.Value)
		if err != nil {
			return nil, err
		}
		return &dictEncoder{key: keyEncoder{inner: key}, value: value, omitNone: t.OmitNone}, nil
	case *shape.Union:
		return c.compileUnion(t)
	default:
		return nil, shape.SchemaErrorf("unsupported descriptor kind %v", d.Kind())
	}
}

func (c *compiler) compileEnum(values []any) (Encoder, error) {
	if len(values) == 0 {
		return nil, shape.SchemaErrorf("enum descriptor has no members")
	}
	enc, err := newEnumEncoder(values)
	if err != nil {
		return nil, shape.SchemaErrorf("%v", err)
	}
	return enc, nil
}

func (c *compiler) compileRecord(rec *shape.Record) (Encoder, error) {
	if cl, ok := c.cells[rec]; ok {
		if cl.enc != nil {
			return cl.enc, nil
		}
		// the record is on the current compile path: a direct cycle without a
		// placeholder still terminates through the shared cell
		return &lazyEncoder{cell: cl}, nil
	}
	cl := &cell{}
	c.cells[rec] = cl

	seen := make(map[string]struct{}, len(rec.Fields))
	fields := make([]field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		wireKey := f.WireKey
		if wireKey == "" {
			wireKey = f.Name
		}
		if _, dup := seen[wireKey]; dup {
			return nil, shape.SchemaErrorf("record %q has duplicate wire key %q", rec.Name, wireKey)
		}
		seen[wireKey] = struct{}{}
		enc, err := c.compile(f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field{
			name:           f.Name,
			wireKey:        wireKey,
			enc:            enc,
			required:       f.Required,
			def:            f.Default,
			hasDef:         f.HasDefault,
			defaultFactory: f.DefaultFactory,
		})
	}
	enc := wrapWithCustom(&recordEncoder{fields: fields, omitNone: rec.OmitNone}, rec.Custom())
	cl.enc = enc
	return enc, nil
}

func (c *compiler) compilePlaceholder(p *shape.Placeholder) (Encoder, error) {
	rec, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	if cl, ok := c.cells[rec]; ok {
		if cl.enc != nil {
			return cl.enc, nil
		}
		return &lazyEncoder{cell: cl}, nil
	}
	// target not reached through the main graph yet: compile it now so the
	// placeholder never dangles
	return c.compileRecord(rec)
}

func (c *compiler) compileUnion(u *shape.Union) (Encoder, error) {
	if len(u.Branches) == 0 {
		return nil, shape.SchemaErrorf("union has no branches")
	}
	dumpKey := u.DumpKey
	loadKey := u.LoadKey

	tags := make([]string, 0, len(u.Branches))
	for tag := range u.Branches {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	branches := make(map[string]Encoder, len(u.Branches))
	for _, tag := range tags {
		bd := u.Branches[tag]
		rec, err := branchRecord(bd)
		if err != nil {
			return nil, err
		}
		df := discriminatorField(rec)
		if df == nil {
			return nil, shape.SchemaErrorf("union branch %q: record %q has no discriminator field", tag, rec.Name)
		}
		if dumpKey == "" {
			dumpKey = df.Name
		} else if dumpKey != df.Name {
			return nil, shape.SchemaErrorf("union branch %q: discriminator field %q does not match dump key %q", tag, df.Name, dumpKey)
		}
		wireKey := df.WireKey
		if wireKey == "" {
			wireKey = df.Name
		}
		if loadKey == "" {
			loadKey = wireKey
		} else if loadKey != wireKey {
			return nil, shape.SchemaErrorf("union branch %q: discriminator wire key %q does not match load key %q", tag, wireKey, loadKey)
		}
		enc, err := c.compile(bd)
		if err != nil {
			return nil, err
		}
		branches[tag] = enc
	}
	return &unionEncoder{branches: branches, dumpKey: dumpKey, loadKey: loadKey}, nil
}

// branchRecord resolves a union branch descriptor to its record, looking
// through Optional and Placeholder indirections.
func branchRecord(d shape.Descriptor) (*shape.Record, error) {
	for {
		switch t := d.(type) {
		case *shape.Record:
			return t, nil
		case *shape.Optional:
			d = t.Inner
		case *shape.Placeholder:
			rec, err := t.Resolve()
			if err != nil {
				return nil, err
			}
			return rec, nil
		default:
			return nil, shape.SchemaErrorf("union branch must resolve to a record, got kind %v", d.Kind())
		}
	}
}

func discriminatorField(rec *shape.Record) *shape.Field {
	for i := range rec.Fields {
		if rec.Fields[i].Discriminator {
			return &rec.Fields[i]
		}
	}
	return nil
}
