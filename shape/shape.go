// Package shape defines the immutable descriptor model consumed by the codec
// compiler. A descriptor tree describes one data shape (records, optional
// fields, discriminated unions, collections, scalars, recursive types); the
// compiler in internal/encoder turns it into an executable dump/load tree.
//
// Descriptors are plain data. Once a graph has been handed to the compiler it
// must not be mutated; sharing one descriptor between several fields is fine
// and encouraged.
package shape

// Kind identifies a descriptor variant.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindDecimal
	KindString
	KindBoolean
	KindUUID
	KindBytes
	KindTime
	KindDate
	KindDateTime
	KindAny
	KindLiteral
	KindEnum
	KindOptional
	KindArray
	KindDictionary
	KindTuple
	KindUnion
	KindRecord
	KindPlaceholder
)

// Descriptor is the sealed interface over all shape variants. The variant set
// is closed: only types in this package implement it.
type Descriptor interface {
	Kind() Kind
	// Custom reports the override hooks attached to this descriptor, nil when
	// none are set.
	Custom() *Override

	setCustom(*Override)
}

// Override carries optional per-descriptor hooks. Dump is applied to the
// structured value before the base codec dumps it; Load is applied to the
// base codec's result after load. Hooks are value adapters and must keep the
// wire shape described by the base descriptor.
type Override struct {
	Dump func(v any) (any, error)
	Load func(v any) (any, error)
}

// Empty reports whether the override carries no hooks at all.
func (o *Override) Empty() bool { return o == nil || (o.Dump == nil && o.Load == nil) }

// base provides Override storage shared by every descriptor variant.
type base struct {
	custom *Override
}

func (b *base) Custom() *Override     { return b.custom }
func (b *base) setCustom(o *Override) { b.custom = o }

// WithOverride attaches hooks to a descriptor in place and returns it, so
// construction reads fluently.
func WithOverride[D Descriptor](d D, o *Override) D {
	d.setCustom(o)
	return d
}

// ---- scalar variants ----

// Integer describes a whole number, optionally range-constrained. The bounds
// feed the JSON Schema projection; the codec itself does not enforce them.
type Integer struct {
	base
	Min, Max *int64
}

func (*Integer) Kind() Kind { return KindInteger }

// Float describes a floating point number.
type Float struct {
	base
	Min, Max *float64
}

func (*Float) Kind() Kind { return KindFloat }

// Decimal describes an arbitrary-precision decimal carried as a string on the
// wire.
type Decimal struct {
	base
	Min, Max *string
}

func (*Decimal) Kind() Kind { return KindDecimal }

// String describes a text value, optionally length-constrained.
type String struct {
	base
	MinLen, MaxLen *int
}

func (*String) Kind() Kind { return KindString }

// Boolean describes a true/false value.
type Boolean struct{ base }

func (*Boolean) Kind() Kind { return KindBoolean }

// UUID describes a canonical RFC 4122 string on the wire.
type UUID struct{ base }

func (*UUID) Kind() Kind { return KindUUID }

// Bytes describes an octet string, base64-encoded on the wire.
type Bytes struct{ base }

func (*Bytes) Kind() Kind { return KindBytes }

// Time describes a clock time without a date ("15:04:05.999999999").
type Time struct{ base }

func (*Time) Kind() Kind { return KindTime }

// Date describes a calendar date ("2006-01-02").
type Date struct{ base }

func (*Date) Kind() Kind { return KindDate }

// DateTime describes an instant, RFC 3339 on the wire.
type DateTime struct{ base }

func (*DateTime) Kind() Kind { return KindDateTime }

// Any passes values through untouched in both directions.
type Any struct{ base }

func (*Any) Kind() Kind { return KindAny }

// ---- value-set variants ----

// Literal restricts a value to a fixed member set (strings or integers).
type Literal struct {
	base
	Values []any
}

func (*Literal) Kind() Kind { return KindLiteral }

// Enum restricts a value to the canonical wire values of an enumeration. It
// shares the Literal lookup semantics; the distinction records its origin.
type Enum struct {
	base
	Values []any
}

func (*Enum) Kind() Kind { return KindEnum }

// ---- composite variants ----

// Optional admits nil in addition to the inner shape.
type Optional struct {
	base
	Inner Descriptor
}

func (*Optional) Kind() Kind { return KindOptional }

// Array describes an ordered sequence of one item shape.
type Array struct {
	base
	Item Descriptor
}

func (*Array) Kind() Kind { return KindArray }

// Dictionary describes a homogeneous map. OmitNone suppresses nil-valued
// entries on dump; load is never affected.
type Dictionary struct {
	base
	Key, Value Descriptor
	OmitNone   bool
}

func (*Dictionary) Kind() Kind { return KindDictionary }

// Tuple describes a fixed-arity heterogeneous sequence.
type Tuple struct {
	base
	Items []Descriptor
}

func (*Tuple) Kind() Kind { return KindTuple }

// Union describes a discriminated union. Branches maps each discriminator
// value to the branch descriptor, which must resolve (possibly through
// Optional or Placeholder) to a Record carrying the discriminator field.
// DumpKey is the attribute read from structured values to pick the branch on
// dump; LoadKey is the wire key read on load.
type Union struct {
	base
	Branches map[string]Descriptor
	DumpKey  string
	LoadKey  string
}

func (*Union) Kind() Kind { return KindUnion }

// Field is one member of a Record.
type Field struct {
	// Name is the attribute key in the structured representation.
	Name string
	// WireKey is the key used on the wire; it may differ from Name and must
	// be unique within the record.
	WireKey string
	Type    Descriptor
	// Required fields must be present on the wire during load and present in
	// the structured value during dump.
	Required bool
	// Default is used when the wire key is absent on load. HasDefault
	// distinguishes an explicit nil default from "no default".
	Default    any
	HasDefault bool
	// DefaultFactory produces a fresh default per load when set; it wins only
	// when no static Default exists.
	DefaultFactory func() any
	// Discriminator marks the field holding a union tag.
	Discriminator bool
}

// Record describes a named, fixed-field object shape. Both entity-like and
// typed-dict-like records share this one contract. OmitNone suppresses
// nil-valued non-required fields on dump.
type Record struct {
	base
	Name     string
	Fields   []Field
	OmitNone bool
}

func (*Record) Kind() Kind { return KindRecord }
