// Package encoder compiles shape descriptors into executable codec trees and
// implements the dump/load semantics of every node kind. A tree is compiled
// once; afterwards it is immutable and safe for concurrent dump/load.
package encoder

import (
	"fmt"
	"strings"
)

// Encoder is the executable counterpart of a descriptor. Dump converts a
// structured value into its wire form; Load converts a wire value back.
// Neither retries nor recovers: the first structural mismatch aborts the
// call and propagates to the caller.
type Encoder interface {
	Dump(v any) (any, error)
	Load(v any) (any, error)
}

// Issue codes produced by codec nodes. The public package re-exposes these
// verbatim.
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeInvalidEnum          = "invalid_enum"
	CodeInvalidArity         = "invalid_arity"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeParseError           = "parse_error"
)

// Issue is a single dump/load failure with a JSON-Pointer position relative
// to the value handed to the root encoder.
type Issue struct {
	Path    string
	Code    string
	Message string
}

// Issues is a list of failures implementing error.
type Issues []Issue

func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, it := range iss {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	return b.String()
}

func singleIssue(code, format string, args ...any) Issues {
	return Issues{Issue{Path: "/", Code: code, Message: fmt.Sprintf(format, args...)}}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// prefixed re-bases issue paths under the given segment while unwinding
// through a composite node. Non-Issues errors (compile bugs surfacing through
// lazy cells) pass through untouched.
func prefixed(err error, segment string) error {
	iss, ok := err.(Issues)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	seg := "/" + pointerEscaper.Replace(segment)
	for i, it := range iss {
		p := it.Path
		if p == "/" || p == "" {
			it.Path = seg
		} else {
			it.Path = seg + p
		}
		out[i] = it
	}
	return out
}
