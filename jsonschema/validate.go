package jsonschema

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	js "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/reoring/wireshape/shape"
)

// ErrorItem is one schema violation, positioned by '/'-joined segment paths
// (property names, decimal array indices, keyword names). The root is the
// empty path.
type ErrorItem struct {
	Message      string
	InstancePath string
	SchemaPath   string
}

// SchemaValidationError carries every violation found by the batch
// validator, or exactly one for the first-error contract.
type SchemaValidationError struct {
	Errors []ErrorItem
}

func (e *SchemaValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "schema validation failed"
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(e.Errors)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := e.Errors[i]
		fmt.Fprintf(b, "%s at %q", it.Message, it.InstancePath)
	}
	if n := len(e.Errors); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Compiled is an immutable, concurrency-safe compiled schema.
type Compiled struct {
	sch *js.Schema
}

// Compile compiles a schema document built by FromShape or by hand.
func Compile(doc *Schema) (*Compiled, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, shape.SchemaErrorf("cannot serialize schema document: %v", err)
	}
	return CompileBytes(b)
}

// CompileBytes compiles a raw JSON schema document.
func CompileBytes(b []byte) (*Compiled, error) {
	sch, err := js.CompileString("schema.json", string(b))
	if err != nil {
		return nil, shape.SchemaErrorf("invalid schema document: %v", err)
	}
	return &Compiled{sch: sch}, nil
}

// CompileYAML compiles a schema document authored in YAML.
func CompileYAML(b []byte) (*Compiled, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, shape.SchemaErrorf("invalid YAML schema document: %v", err)
	}
	jb, err := json.Marshal(doc)
	if err != nil {
		return nil, shape.SchemaErrorf("cannot serialize schema document: %v", err)
	}
	return CompileBytes(jb)
}

// IsValid is the fast boolean gate. It avoids building error reports and is
// the short-circuit used before detailed validation.
func (c *Compiled) IsValid(v any) bool {
	return c.sch.Validate(v) == nil
}

// Validate checks v and reports every leaf violation (batch contract). A nil
// return means the value conforms.
func (c *Compiled) Validate(v any) error {
	err := c.sch.Validate(v)
	if err == nil {
		return nil
	}
	return &SchemaValidationError{Errors: toErrorItems(err, false)}
}

// ValidateFirst checks v and reports only the first leaf violation
// (fast-fail contract).
func (c *Compiled) ValidateFirst(v any) error {
	err := c.sch.Validate(v)
	if err == nil {
		return nil
	}
	return &SchemaValidationError{Errors: toErrorItems(err, true)}
}

func toErrorItems(err error, firstOnly bool) []ErrorItem {
	ve, ok := err.(*js.ValidationError)
	if !ok {
		return []ErrorItem{{Message: err.Error()}}
	}
	var items []ErrorItem
	collectLeaves(ve, &items, firstOnly)
	if len(items) == 0 {
		items = append(items, ErrorItem{
			Message:      ve.Message,
			InstancePath: pointerToPath(ve.InstanceLocation),
			SchemaPath:   pointerToPath(ve.KeywordLocation),
		})
	}
	return items
}

func collectLeaves(ve *js.ValidationError, items *[]ErrorItem, firstOnly bool) {
	if firstOnly && len(*items) > 0 {
		return
	}
	if len(ve.Causes) == 0 {
		*items = append(*items, ErrorItem{
			Message:      ve.Message,
			InstancePath: pointerToPath(ve.InstanceLocation),
			SchemaPath:   pointerToPath(ve.KeywordLocation),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, items, firstOnly)
		if firstOnly && len(*items) > 0 {
			return
		}
	}
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// pointerToPath renders a JSON Pointer as '/'-joined segments with no
// leading slash; the root pointer renders empty.
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	segs := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, s := range segs {
		segs[i] = pointerUnescaper.Replace(s)
	}
	return strings.Join(segs, "/")
}
