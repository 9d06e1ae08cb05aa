package coproto

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// AsBool returns the value as bool when it is a Boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsInt64 returns the value as int64 when it can be reasonably converted.
// Bigints convert when they fit and Booleans read as 0 or 1.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.i, true
	case KindBigint:
		if !v.big.IsInt64() {
			return 0, false
		}
		return v.big.Int64(), true
	case KindBoolean:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat64 returns the value as float64 when it can be reasonably converted.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	case KindBigint:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		if math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsBigInt returns a copy of the value as *big.Int for Integer and Bigint.
func (v Value) AsBigInt() (*big.Int, bool) {
	switch v.kind {
	case KindBigint:
		return new(big.Int).Set(v.big), true
	case KindInteger:
		return big.NewInt(v.i), true
	default:
		return nil, false
	}
}

// AsString returns the payload of a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns a copy of the elements of an Array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return cloneValues(v.elems), true
}

// AsCommand returns the name and a copy of the arguments of a Command.
func (v Value) AsCommand() (string, []Value, bool) {
	if v.kind != KindCommand {
		return "", nil, false
	}
	return v.s, cloneValues(v.elems), true
}

// Interface converts v to plain Go values: nil, bool, int64, float64,
// *big.Int, string, []any for Arrays and map[string]any with "command" and
// "args" keys for Commands.
func (v Value) Interface() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindInteger:
		return v.i
	case KindDouble:
		return v.f
	case KindBigint:
		return new(big.Int).Set(v.big)
	case KindString:
		return v.s
	case KindArray:
		return interfaces(v.elems)
	case KindCommand:
		return map[string]any{"command": v.s, "args": interfaces(v.elems)}
	default:
		return nil
	}
}

func interfaces(vs []Value) []any {
	out := make([]any, len(vs))
	for i, e := range vs {
		out[i] = e.Interface()
	}
	return out
}

// String renders v for diagnostics, for example Array[Integer(1), String("a")].
func (v Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	sb.WriteString(v.kind.String())
	switch v.kind {
	case KindNull:
	case KindBoolean:
		fmt.Fprintf(sb, "(%t)", v.b)
	case KindInteger:
		fmt.Fprintf(sb, "(%d)", v.i)
	case KindDouble:
		fmt.Fprintf(sb, "(%s)", strconv.FormatFloat(v.f, 'f', -1, 64))
	case KindBigint:
		fmt.Fprintf(sb, "(%s)", v.big.String())
	case KindString:
		fmt.Fprintf(sb, "(%q)", v.s)
	case KindArray:
		writeElems(sb, v.elems)
	case KindCommand:
		fmt.Fprintf(sb, "(%q)", v.s)
		writeElems(sb, v.elems)
	}
}

func writeElems(sb *strings.Builder, elems []Value) {
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		e.writeTo(sb)
	}
	sb.WriteByte(']')
}
