// Package value holds the typed scalar representation shared by property
// comparisons, return projections and aggregation contexts.
package value

import "fmt"

type Kind int

const (
	IntVal Kind = iota
	FloatVal
	StringVal
	BoolVal
)

// Value is a tagged union over the scalar types the engine ever compares,
// projects or aggregates. Bound identities (node ids, edge relationships)
// are always represented as StringVal.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	B    bool
}

func Int(i int64) Value    { return Value{Kind: IntVal, I: i} }
func Float(f float64) Value { return Value{Kind: FloatVal, F: f} }
func String(s string) Value { return Value{Kind: StringVal, S: s} }
func Bool(b bool) Value     { return Value{Kind: BoolVal, B: b} }

// Any unwraps a Value into the concrete Go type callers expect (used when
// handing values to the expression runtime's environment, or to encoding/json).
func (v Value) Any() any {
	switch v.Kind {
	case IntVal:
		return v.I
	case FloatVal:
		return v.F
	case StringVal:
		return v.S
	case BoolVal:
		return v.B
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case IntVal:
		return fmt.Sprintf("%d", v.I)
	case FloatVal:
		return fmt.Sprintf("%g", v.F)
	case StringVal:
		return v.S
	case BoolVal:
		return fmt.Sprintf("%t", v.B)
	default:
		return "<unknown>"
	}
}

// FromAny wraps a decoded Go value (as produced by expr-lang's evaluator or
// a JSON decoder) back into a Value.
func FromAny(a any) Value {
	switch t := a.(type) {
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case bool:
		return Bool(t)
	default:
		return Value{}
	}
}
