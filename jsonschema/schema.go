// Package jsonschema hosts the validation gate: a JSON Schema document
// model, a projection from shape descriptors into documents, and a compiled
// validator producing positioned error reports. The evaluator itself is a
// black box (santhosh-tekuri/jsonschema); this package owns only the
// boundary contract.
package jsonschema

// Schema is the subset of draft 2020-12 emitted by the shape projection.
type Schema struct {
	// Core
	Ref    string             `json:"$ref,omitempty"`
	Defs   map[string]*Schema `json:"$defs,omitempty"`
	Type   string             `json:"type,omitempty"`
	Format string             `json:"format,omitempty"`
	Enum   []any              `json:"enum,omitempty"`

	// Numbers
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Strings
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
}
