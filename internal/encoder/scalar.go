package encoder

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reoring/wireshape/internal/isotime"
)

// Scalar intake is tolerant about the concrete Go number type because wire
// trees arrive from different JSON layers (json.Number from the token engine,
// float64 from pre-decoded input, native ints from hand-built values).

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

type intEncoder struct{}

func (intEncoder) Dump(v any) (any, error) {
	i, ok := asInt64(v)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected integer, got %T", v)
	}
	return i, nil
}

func (intEncoder) Load(v any) (any, error) {
	i, ok := asInt64(v)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected integer, got %T", v)
	}
	return i, nil
}

type floatEncoder struct{}

func (floatEncoder) Dump(v any) (any, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected number, got %T", v)
	}
	return f, nil
}

func (floatEncoder) Load(v any) (any, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected number, got %T", v)
	}
	return f, nil
}

type stringEncoder struct{}

func (stringEncoder) Dump(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected string, got %T", v)
	}
	return s, nil
}

func (stringEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected string, got %T", v)
	}
	return s, nil
}

type boolEncoder struct{}

func (boolEncoder) Dump(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected bool, got %T", v)
	}
	return b, nil
}

func (boolEncoder) Load(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected bool, got %T", v)
	}
	return b, nil
}

// decimalEncoder carries decimals as strings on the wire so precision never
// depends on a float round-trip.
type decimalEncoder struct{}

func (decimalEncoder) Dump(v any) (any, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.String(), nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return nil, singleIssue(CodeParseError, "invalid decimal %q", t)
		}
		return d.String(), nil
	default:
		return nil, singleIssue(CodeInvalidType, "expected decimal, got %T", v)
	}
}

func (decimalEncoder) Load(v any) (any, error) {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return nil, singleIssue(CodeParseError, "invalid decimal %q", t)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil, singleIssue(CodeParseError, "invalid decimal %q", t.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	default:
		return nil, singleIssue(CodeInvalidType, "expected decimal string or number, got %T", v)
	}
}

type uuidEncoder struct{}

func (uuidEncoder) Dump(v any) (any, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t.String(), nil
	case string:
		u, err := uuid.Parse(t)
		if err != nil {
			return nil, singleIssue(CodeParseError, "invalid UUID %q", t)
		}
		return u.String(), nil
	default:
		return nil, singleIssue(CodeInvalidType, "expected UUID, got %T", v)
	}
}

func (uuidEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected UUID string, got %T", v)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, singleIssue(CodeParseError, "invalid UUID %q", s)
	}
	return u, nil
}

type bytesEncoder struct{}

func (bytesEncoder) Dump(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected bytes, got %T", v)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (bytesEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected base64 string, got %T", v)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, singleIssue(CodeParseError, "invalid base64 text")
	}
	return b, nil
}

type dateTimeEncoder struct{}

func (dateTimeEncoder) Dump(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected time.Time, got %T", v)
	}
	return isotime.FormatDateTime(t), nil
}

func (dateTimeEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected datetime string, got %T", v)
	}
	t, err := isotime.ParseDateTime(s)
	if err != nil {
		return nil, singleIssue(CodeParseError, "invalid datetime %q", s)
	}
	return t, nil
}

// dateEncoder truncates a full instant to its date on dump, mirroring the
// convenience of passing a datetime where a date is declared.
type dateEncoder struct{}

func (dateEncoder) Dump(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected time.Time, got %T", v)
	}
	return isotime.FormatDate(t), nil
}

func (dateEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected date string, got %T", v)
	}
	t, err := isotime.ParseDate(s)
	if err != nil {
		return nil, singleIssue(CodeParseError, "invalid date %q", s)
	}
	return t, nil
}

type timeEncoder struct{}

func (timeEncoder) Dump(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected time.Time, got %T", v)
	}
	return isotime.FormatTime(t), nil
}

func (timeEncoder) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected time string, got %T", v)
	}
	t, err := isotime.ParseTime(s)
	if err != nil {
		return nil, singleIssue(CodeParseError, "invalid time %q", s)
	}
	return t, nil
}

type anyEncoder struct{}

func (anyEncoder) Dump(v any) (any, error) { return v, nil }
func (anyEncoder) Load(v any) (any, error) { return v, nil }

// enumEncoder serves Literal and Enum descriptors: a precomputed lookup from
// the member's canonical text to the member itself. Members are sorted before
// insertion and the first entry wins; a string member sorts before an integer
// rendering to the same key, so the winner never depends on declaration order.
type enumEncoder struct {
	lookup map[string]any
}

func newEnumEncoder(values []any) (*enumEncoder, error) {
	type member struct {
		key string
		val any
	}
	members := make([]member, 0, len(values))
	for _, v := range values {
		nv, key, ok := normalizeMember(v)
		if !ok {
			return nil, fmt.Errorf("enum members must be strings or integers, got %T", v)
		}
		members = append(members, member{key: key, val: nv})
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].key != members[j].key {
			return members[i].key < members[j].key
		}
		_, si := members[i].val.(string)
		_, sj := members[j].val.(string)
		return si && !sj
	})
	lookup := make(map[string]any, len(members))
	for _, m := range members {
		if _, ok := lookup[m.key]; !ok {
			lookup[m.key] = m.val
		}
	}
	return &enumEncoder{lookup: lookup}, nil
}

func normalizeMember(v any) (any, string, bool) {
	switch t := v.(type) {
	case string:
		return t, t, true
	default:
		if i, ok := asInt64(v); ok {
			return i, fmt.Sprintf("%d", i), true
		}
		return nil, "", false
	}
}

func (e *enumEncoder) resolve(v any) (any, error) {
	_, key, ok := normalizeMember(v)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "expected enum member, got %T", v)
	}
	m, ok := e.lookup[key]
	if !ok {
		return nil, singleIssue(CodeInvalidEnum, "%v is not a member", v)
	}
	return m, nil
}

func (e *enumEncoder) Dump(v any) (any, error) { return e.resolve(v) }
func (e *enumEncoder) Load(v any) (any, error) { return e.resolve(v) }
