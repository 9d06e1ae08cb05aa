package coproto

import (
	"math"
	"math/big"
)

// Encode encodes a native Go value. Supported inputs are nil, bool, the Go
// integer kinds, float32 and float64, string, []byte, *big.Int, big.Int and
// Value. Whole floats in int64 range encode as Integer, other finite floats
// as Double, and whole floats beyond int64 as Bigint. Anything else fails with ErrUnsupportedType; build Arrays and
// Commands with ArrayValue and CommandValue.
func Encode(v any) ([]byte, error) {
	val, err := ValueOf(v)
	if err != nil {
		return nil, err
	}
	return val.Bytes(), nil
}

// ValueOf converts a native Go value the way Encode does.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(uint64(x)), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(x), nil
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case string:
		return StringValue(x)
	case []byte:
		return StringValue(string(x))
	case *big.Int:
		if x == nil {
			return NullValue(), nil
		}
		return BigintValue(x), nil
	case big.Int:
		return BigintValue(&x), nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return NullValue(), nil
		}
		return *x, nil
	default:
		return Value{}, wrapErrUnsupportedType(v)
	}
}

// ArrayOf converts each item with ValueOf and builds an Array.
func ArrayOf(items ...any) (Value, error) {
	elems, err := valuesOf(items)
	if err != nil {
		return Value{}, err
	}
	return ArrayValue(elems...)
}

// CommandOf converts each argument with ValueOf and builds a Command.
func CommandOf(name string, args ...any) (Value, error) {
	elems, err := valuesOf(args)
	if err != nil {
		return Value{}, err
	}
	return CommandValue(name, elems...)
}

func valuesOf(items []any) ([]Value, error) {
	out := make([]Value, len(items))
	for i, item := range items {
		v, err := ValueOf(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return BigintValue(new(big.Int).SetUint64(u))
	}
	return IntValue(int64(u))
}

func floatValue(f float64) (Value, error) {
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return DoubleValue(f)
	}
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return IntValue(int64(f)), nil
	}
	x, _ := big.NewFloat(f).Int(nil)
	return BigintValue(x), nil
}
