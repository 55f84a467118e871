package wireshape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/wireshape/internal/encoder"
)

// Issue codes (exported consts for IDE completion and type safety by
// convention). Codec nodes produce the first group; the JSON text layer
// produces the last two.
const (
	CodeInvalidType          = encoder.CodeInvalidType
	CodeRequired             = encoder.CodeRequired
	CodeInvalidEnum          = encoder.CodeInvalidEnum
	CodeInvalidArity         = encoder.CodeInvalidArity
	CodeDiscriminatorMissing = encoder.CodeDiscriminatorMissing
	CodeDiscriminatorUnknown = encoder.CodeDiscriminatorUnknown
	CodeParseError           = encoder.CodeParseError
	CodeInvalidJSON          = "invalid_json"
	CodeRecursionLimit       = "recursion_limit"
)

// Issue represents a single dump/load failure.
type Issue struct {
	Path    string // JSON Pointer into the offending value (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// toIssues converts internal encoder issues to the public model at the API
// boundary. Compile-phase errors (shape.SchemaError) pass through untouched.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if ei, ok := err.(encoder.Issues); ok {
		out := make(Issues, len(ei))
		for i, it := range ei {
			out[i] = Issue{Path: it.Path, Code: it.Code, Message: it.Message}
		}
		return out
	}
	return err
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg})
}
