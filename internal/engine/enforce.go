package engine

// Depth enforcement wrapper for TokenSource. Wire trees destined for or
// produced from JSON text cap container nesting at a fixed ceiling so a
// pathological document fails with a reported error instead of exhausting
// the call stack further down.

// ErrDepthExceeded is returned through NextToken when the nesting ceiling is
// crossed.
type ErrDepthExceeded struct {
	Limit int
}

func (e ErrDepthExceeded) Error() string { return "max nesting depth exceeded" }

// WrapWithDepthLimit returns a TokenSource that fails once container nesting
// exceeds limit. A limit of zero or less disables enforcement.
func WrapWithDepthLimit(inner TokenSource, limit int) TokenSource {
	if limit <= 0 {
		return inner
	}
	return &depthLimitedSource{inner: inner, limit: limit}
}

type depthLimitedSource struct {
	inner TokenSource
	limit int
	depth int
}

func (s *depthLimitedSource) NextToken() (Token, error) {
	tok, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		s.depth++
		if s.depth > s.limit {
			return Token{}, ErrDepthExceeded{Limit: s.limit}
		}
	case KindEndObject, KindEndArray:
		if s.depth > 0 {
			s.depth--
		}
	}
	return tok, nil
}

func (s *depthLimitedSource) Location() int64 { return s.inner.Location() }

// MeasureDepth reports the maximum container nesting of a wire tree. The
// wire-to-text path uses it to apply the same ceiling as the text-to-wire
// path before handing the tree to the JSON marshaler.
func MeasureDepth(v any) int {
	switch t := v.(type) {
	case map[string]any:
		max := 0
		for _, e := range t {
			if d := MeasureDepth(e); d > max {
				max = d
			}
		}
		return max + 1
	case []any:
		max := 0
		for _, e := range t {
			if d := MeasureDepth(e); d > max {
				max = d
			}
		}
		return max + 1
	default:
		return 0
	}
}
