package wireshape

import (
	"errors"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/wireshape/internal/encoder"
	"github.com/reoring/wireshape/internal/engine"
	"github.com/reoring/wireshape/jsonschema"
	"github.com/reoring/wireshape/shape"
	"github.com/reoring/wireshape/source/gojson"
)

// MaxJSONDepth caps container nesting when converting between wire trees and
// JSON text. Exceeding it fails with CodeRecursionLimit instead of risking
// the call stack.
const MaxJSONDepth = 255

// Serializer is the compiled form of one descriptor: an executable codec
// tree plus an optional validation gate. Building it amortizes all schema
// walking; afterwards it is immutable and safe for concurrent use.
type Serializer struct {
	enc  encoder.Encoder
	gate *jsonschema.Compiled
}

type options struct {
	validator      *jsonschema.Compiled
	skipValidation bool
}

// Option configures New.
type Option func(*options)

// WithValidator installs a pre-compiled schema as the validation gate,
// replacing the one projected from the descriptor.
func WithValidator(c *jsonschema.Compiled) Option {
	return func(o *options) { o.validator = c }
}

// WithoutValidation builds a serializer with no validation gate; Load with
// validate=true then fails with a schema error.
func WithoutValidation() Option {
	return func(o *options) { o.skipValidation = true }
}

// New compiles the descriptor into a codec tree and, unless configured
// otherwise, projects and compiles its validation schema. Structural
// problems in the descriptor graph surface here as *shape.SchemaError.
func New(d shape.Descriptor, opts ...Option) (*Serializer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := encoder.Compile(d)
	if err != nil {
		return nil, err
	}
	s := &Serializer{enc: enc}
	switch {
	case o.validator != nil:
		s.gate = o.validator
	case !o.skipValidation:
		doc, err := jsonschema.FromShape(d)
		if err != nil {
			return nil, err
		}
		gate, err := jsonschema.Compile(doc)
		if err != nil {
			return nil, err
		}
		s.gate = gate
	}
	return s, nil
}

// Dump converts a structured value into its wire form.
func (s *Serializer) Dump(v any) (any, error) {
	w, err := s.enc.Dump(v)
	if err != nil {
		return nil, toIssues(err)
	}
	return w, nil
}

// DumpJSON converts a structured value into JSON text.
func (s *Serializer) DumpJSON(v any) ([]byte, error) {
	w, err := s.Dump(v)
	if err != nil {
		return nil, err
	}
	if engine.MeasureDepth(w) > MaxJSONDepth {
		return nil, singleIssue(CodeRecursionLimit, "wire value exceeds max nesting depth")
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: "cannot serialize wire value", Cause: err})
	}
	return b, nil
}

// Load converts a wire value into its structured form. When validate is
// true the validation gate runs first: the cheap boolean check short-circuits
// the common conforming case, and only failures pay for the full report,
// surfaced as *jsonschema.SchemaValidationError before any structural
// decoding is attempted.
func (s *Serializer) Load(wire any, validate bool) (any, error) {
	if validate {
		if s.gate == nil {
			return nil, shape.SchemaErrorf("serializer was built without a validation gate")
		}
		if !s.gate.IsValid(wire) {
			return nil, s.gate.Validate(wire)
		}
	}
	v, err := s.enc.Load(wire)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// LoadJSON parses JSON text into the wire form and then loads it. Malformed
// text fails with CodeInvalidJSON; nesting beyond MaxJSONDepth fails with
// CodeRecursionLimit.
func (s *Serializer) LoadJSON(data []byte, validate bool) (any, error) {
	src := engine.WrapWithDepthLimit(gojson.NewBytes(data), MaxJSONDepth)
	wire, err := engine.DecodeAnyFromSource(src)
	if err != nil {
		var deep engine.ErrDepthExceeded
		if errors.As(err, &deep) {
			return nil, singleIssue(CodeRecursionLimit, "JSON text exceeds max nesting depth")
		}
		return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeInvalidJSON, Message: "invalid JSON text", Cause: err})
	}
	// a second value after the first one is not a valid document
	if _, err := src.NextToken(); err != io.EOF {
		return nil, singleIssue(CodeInvalidJSON, "trailing data after JSON value")
	}
	return s.Load(wire, validate)
}

// Validate runs the gate in batch mode, reporting every violation.
func (s *Serializer) Validate(wire any) error {
	if s.gate == nil {
		return shape.SchemaErrorf("serializer was built without a validation gate")
	}
	return s.gate.Validate(wire)
}

// ValidateFirst runs the gate in fast-fail mode, reporting only the first
// violation.
func (s *Serializer) ValidateFirst(wire any) error {
	if s.gate == nil {
		return shape.SchemaErrorf("serializer was built without a validation gate")
	}
	return s.gate.ValidateFirst(wire)
}
