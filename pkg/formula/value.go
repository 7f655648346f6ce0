package formula

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the closed Value sum (spec §3.2). Using an explicit
// enumerated tag, rather than a visitor-pattern class hierarchy, keeps
// exhaustiveness checkable at each switch.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBoolean
	KindError
	KindEmpty
	KindRange
	KindFunction
	KindOmitted
)

// Closure is a LAMBDA value: parameter names, an unevaluated body, and the
// context it closed over at definition time (spec §3.2's "capturing scope").
type Closure struct {
	Params []string
	Body   Node
	Scope  EvaluationContext
}

// Value is the single closed result type every AST node evaluates to.
// Exactly one payload field is meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Num     float64
	Str     string
	Bool    bool
	Err     ErrorKind
	Range   [][]Value
	Closure *Closure
}

func Number(n float64) Value         { return Value{Kind: KindNumber, Num: n} }
func Text(s string) Value            { return Value{Kind: KindText, Str: s} }
func Boolean(b bool) Value           { return Value{Kind: KindBoolean, Bool: b} }
func Err(k ErrorKind) Value          { return Value{Kind: KindError, Err: k} }
func Empty() Value                   { return Value{Kind: KindEmpty} }
func Omitted() Value                 { return Value{Kind: KindOmitted} }
func RangeValue(m [][]Value) Value   { return Value{Kind: KindRange, Range: m} }
func FunctionValue(c *Closure) Value { return Value{Kind: KindFunction, Closure: c} }

// IsError reports whether v is the Error variant.
func (v Value) IsError() bool { return v.Kind == KindError }

// ToNumber implements the total toNumber coercion of spec §3.2.
func (v Value) ToNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindBoolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindEmpty:
		return 0, true
	case KindText:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, false
		}
		if strings.HasSuffix(s, "%") {
			n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
			if err != nil {
				return 0, false
			}
			return n / 100, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case KindError:
		return 0, false
	case KindRange:
		if len(v.Range) == 1 && len(v.Range[0]) == 1 {
			return v.Range[0][0].ToNumber()
		}
		return 0, false
	case KindFunction, KindOmitted:
		return 0, true
	}
	return 0, false
}

// ToText implements the total toText coercion of spec §3.2.
func (v Value) ToText() string {
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindText:
		return v.Str
	case KindBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindError:
		return v.Err.Code()
	case KindEmpty:
		return ""
	case KindRange:
		rows := make([]string, len(v.Range))
		for i, row := range v.Range {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = c.ToText()
			}
			rows[i] = strings.Join(cells, ",")
		}
		return strings.Join(rows, ";")
	case KindFunction:
		return "#LAMBDA"
	case KindOmitted:
		return ""
	}
	return ""
}

// ToBool implements the total toBool coercion of spec §3.2.
func (v Value) ToBool() bool {
	switch v.Kind {
	case KindNumber:
		return v.Num != 0
	case KindText:
		return v.Str != ""
	case KindBoolean:
		return v.Bool
	default:
		return false
	}
}

// IsTruthy implements IF-condition semantics, which differ from ToBool only
// in how Range is treated (spec §3.2).
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindNumber, KindText, KindBoolean:
		return v.ToBool()
	case KindRange:
		return len(v.Range) > 0 && len(v.Range[0]) > 0
	default:
		return false
	}
}

// Equal implements structural, per-variant equality (spec §3.2). Range
// equality is element-wise; Closures are never equal to anything but
// themselves by identity.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Str == o.Str
	case KindBoolean:
		return v.Bool == o.Bool
	case KindError:
		return v.Err == o.Err
	case KindEmpty, KindOmitted:
		return true
	case KindRange:
		if len(v.Range) != len(o.Range) {
			return false
		}
		for i := range v.Range {
			if len(v.Range[i]) != len(o.Range[i]) {
				return false
			}
			for j := range v.Range[i] {
				if !v.Range[i][j].Equal(o.Range[i][j]) {
					return false
				}
			}
		}
		return true
	case KindFunction:
		return v.Closure == o.Closure
	}
	return false
}

// Hash is defined for the scalar kinds required by spec §3.2 (Number, Text,
// Boolean, Empty, Error) so Value can key a map/set when needed by a host.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	switch v.Kind {
	case KindNumber:
		h.Write([]byte{byte(KindNumber)})
		var buf [8]byte
		bits := math.Float64bits(v.Num)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	case KindText:
		h.Write([]byte{byte(KindText)})
		h.Write([]byte(strings.ToUpper(v.Str)))
	case KindBoolean:
		h.Write([]byte{byte(KindBoolean)})
		if v.Bool {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case KindEmpty:
		h.Write([]byte{byte(KindEmpty)})
	case KindError:
		h.Write([]byte{byte(KindError), byte(v.Err)})
	default:
		h.Write([]byte{byte(v.Kind)})
	}
	return h.Sum64()
}

// FormatNumber renders a float64 the way the engine's toText does: the
// shortest round-trip decimal, without Go's scientific notation for values
// in the range spreadsheets normally display.
func FormatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	abs := math.Abs(n)
	if n == 0 {
		return "0"
	}
	if abs < 1e15 && abs >= 1e-9 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
