package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind of values stored in a series.
type Kind int

const (
	KindNull Kind = iota // all values are missing, no better type is known
	KindInt
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single cell value.
type Value struct {
	Kind  Kind
	Valid bool
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// IsNull reports missing value.
func (v Value) IsNull() bool {
	return !v.Valid
}

// String returns natural text form of the value.
func (v Value) String() string {
	if !v.Valid {
		return "null"
	}
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

// Series is an immutable named column of values of the same kind.
type Series struct {
	name   string
	kind   Kind
	valid  []bool
	ints   []int64
	floats []float64
	strs   []string
	bools  []bool
}

func allValid(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Ints creates integer series.
func Ints(name string, values ...int64) *Series {
	return &Series{name: name, kind: KindInt, valid: allValid(len(values)), ints: append([]int64(nil), values...)}
}

// Floats creates float series.
func Floats(name string, values ...float64) *Series {
	return &Series{name: name, kind: KindFloat, valid: allValid(len(values)), floats: append([]float64(nil), values...)}
}

// Strings creates text series.
func Strings(name string, values ...string) *Series {
	return &Series{name: name, kind: KindString, valid: allValid(len(values)), strs: append([]string(nil), values...)}
}

// Bools creates boolean series.
func Bools(name string, values ...bool) *Series {
	return &Series{name: name, kind: KindBool, valid: allValid(len(values)), bools: append([]bool(nil), values...)}
}

// FromValues creates series from loosely typed values. Accepted are nil
// (null), integers, floats, strings and bools. Series kind is the widest
// kind of non nil values: int widens to float, anything mixed with text or
// bool becomes text.
func FromValues(name string, values []any) (*Series, error) {
	kind := KindNull
	for i, v := range values {
		var k Kind
		switch v.(type) {
		case nil:
			continue
		case int, int32, int64:
			k = KindInt
		case float32, float64:
			k = KindFloat
		case string:
			k = KindString
		case bool:
			k = KindBool
		default:
			return nil, fmt.Errorf("column %q row %d: unsupported value type %T", name, i, v)
		}
		kind = widen(kind, k)
	}

	s := &Series{name: name, kind: kind, valid: make([]bool, len(values))}
	switch kind {
	case KindInt:
		s.ints = make([]int64, len(values))
	case KindFloat:
		s.floats = make([]float64, len(values))
	case KindString:
		s.strs = make([]string, len(values))
	case KindBool:
		s.bools = make([]bool, len(values))
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		s.valid[i] = true
		switch kind {
		case KindInt:
			s.ints[i] = toInt(v)
		case KindFloat:
			s.floats[i] = toFloat(v)
		case KindString:
			s.strs[i] = toText(v)
		case KindBool:
			s.bools[i] = v.(bool)
		}
	}
	return s, nil
}

func widen(have, next Kind) Kind {
	switch {
	case have == KindNull || have == next:
		return next
	case (have == KindInt && next == KindFloat) || (have == KindFloat && next == KindInt):
		return KindFloat
	default:
		return KindString
	}
}

func toInt(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return float64(toInt(v))
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float32, float64:
		return strconv.FormatFloat(toFloat(x), 'f', -1, 64)
	}
	return strconv.FormatInt(toInt(v), 10)
}

// Name returns series name.
func (s *Series) Name() string { return s.name }

// Kind returns kind of series values.
func (s *Series) Kind() Kind { return s.kind }

// Len returns number of values.
func (s *Series) Len() int { return len(s.valid) }

// Value returns value at row i.
func (s *Series) Value(i int) Value {
	v := Value{Kind: s.kind, Valid: s.valid[i]}
	if !v.Valid {
		return v
	}
	switch s.kind {
	case KindInt:
		v.Int = s.ints[i]
	case KindFloat:
		v.Float = s.floats[i]
	case KindString:
		v.Str = s.strs[i]
	case KindBool:
		v.Bool = s.bools[i]
	}
	return v
}

// Rename returns copy of the series under a new name.
func (s *Series) Rename(name string) *Series {
	c := *s
	c.name = name
	return &c
}

// Float returns value at row i as float and whether it is present.
func (s *Series) Float(i int) (float64, bool) {
	if s.kind != KindFloat || !s.valid[i] {
		return 0, false
	}
	return s.floats[i], true
}

// Cast converts series to float kind. Integers and bools convert
// numerically, text is parsed and unparsable text becomes null.
func (s *Series) Cast() *Series {
	if s.kind == KindFloat {
		return s
	}
	out := &Series{name: s.name, kind: KindFloat, valid: make([]bool, s.Len()), floats: make([]float64, s.Len())}
	for i := range s.valid {
		if !s.valid[i] {
			continue
		}
		switch s.kind {
		case KindInt:
			out.floats[i], out.valid[i] = float64(s.ints[i]), true
		case KindBool:
			if s.bools[i] {
				out.floats[i] = 1
			}
			out.valid[i] = true
		case KindString:
			if f, err := strconv.ParseFloat(s.strs[i], 64); err == nil {
				out.floats[i], out.valid[i] = f, true
			}
		}
	}
	return out
}

// Min returns smallest non null, non NaN value of float series.
func (s *Series) Min() (float64, bool) {
	return s.reduce(func(a, b float64) bool { return b < a })
}

// Max returns largest non null, non NaN value of float series.
func (s *Series) Max() (float64, bool) {
	return s.reduce(func(a, b float64) bool { return b > a })
}

func (s *Series) reduce(better func(a, b float64) bool) (float64, bool) {
	f := s.Cast()
	var (
		res   float64
		found bool
	)
	for i, v := range f.floats {
		if !f.valid[i] || math.IsNaN(v) {
			continue
		}
		if !found || better(res, v) {
			res, found = v, true
		}
	}
	return res, found
}

// Map applies fn to every non null value of the series cast to float.
func (s *Series) Map(fn func(float64) float64) *Series {
	f := s.Cast()
	out := &Series{name: f.name, kind: KindFloat, valid: append([]bool(nil), f.valid...), floats: make([]float64, len(f.floats))}
	for i, v := range f.floats {
		if f.valid[i] {
			out.floats[i] = fn(v)
		}
	}
	return out
}

// ClipMin raises values below lo to lo.
func (s *Series) ClipMin(lo float64) *Series {
	return s.Map(func(v float64) float64 { return math.Max(v, lo) })
}

// ClipMax lowers values above hi to hi.
func (s *Series) ClipMax(hi float64) *Series {
	return s.Map(func(v float64) float64 { return math.Min(v, hi) })
}

// SubScalar subtracts x from every value.
func (s *Series) SubScalar(x float64) *Series {
	return s.Map(func(v float64) float64 { return v - x })
}

// DivScalar divides every value by x.
func (s *Series) DivScalar(x float64) *Series {
	return s.Map(func(v float64) float64 { return v / x })
}
