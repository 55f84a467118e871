// Package wireshape compiles declarative data-shape descriptors into
// executable codecs that convert values between a structured in-memory form
// and a generic wire form (maps, slices, scalars, or JSON text), optionally
// gated by JSON Schema validation.
//
// A descriptor graph (package shape) is compiled once by New; the resulting
// Serializer is immutable and safe for concurrent Dump/Load calls. Recursive
// and mutually referential shapes compile in finite time through a
// memoization table with lazy indirections.
//
// Structured records are map[string]any keyed by field name; wire records
// are map[string]any keyed by wire key. An absent optional field is a
// missing map key, distinct from a key explicitly set to nil.
package wireshape
