package coproto

import (
	"bytes"
	"math/big"
)

// Value is one coproto value held in both forms: the native value and its
// canonical encoding. Both are computed when the Value is built and never
// change afterwards, so a Value is safe to share between goroutines. The
// zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	big   *big.Int
	s     string // String payload or Command name
	elems []Value
	buf   []byte // encoding including BufferEnd
}

// NullValue returns Null.
func NullValue() Value {
	return Value{kind: KindNull, buf: EncodeNull()}
}

// BoolValue returns a Boolean.
func BoolValue(v bool) Value {
	return Value{kind: KindBoolean, b: v, buf: EncodeBoolean(v)}
}

// IntValue returns an Integer.
func IntValue(v int64) Value {
	return Value{kind: KindInteger, i: v, buf: EncodeInteger(v)}
}

// DoubleValue returns a Double. See EncodeDouble for the accepted range.
func DoubleValue(f float64) (Value, error) {
	buf, err := EncodeDouble(f)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindDouble, f: f, buf: buf}, nil
}

// BigintValue returns a Bigint holding a copy of x.
func BigintValue(x *big.Int) Value {
	c := new(big.Int)
	if x != nil {
		c.Set(x)
	}
	return Value{kind: KindBigint, big: c, buf: EncodeBigint(c)}
}

// StringValue returns a String.
func StringValue(s string) (Value, error) {
	buf, err := EncodeString(s)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindString, s: s, buf: buf}, nil
}

// ArrayValue returns an Array of elems.
func ArrayValue(elems ...Value) (Value, error) {
	buf, err := EncodeArray(elems)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, elems: cloneValues(elems), buf: buf}, nil
}

// CommandValue returns a Command.
func CommandValue(name string, args ...Value) (Value, error) {
	buf, err := EncodeCommand(name, args)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindCommand, s: name, elems: cloneValues(args), buf: buf}, nil
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Bytes returns a copy of the canonical encoding of v.
func (v Value) Bytes() []byte {
	if v.buf == nil {
		return EncodeNull()
	}
	return cloneBytes(v.buf)
}

// encodeNative builds the canonical encoding from the native fields.
func (v Value) encodeNative() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return EncodeNull(), nil
	case KindBoolean:
		return EncodeBoolean(v.b), nil
	case KindInteger:
		return EncodeInteger(v.i), nil
	case KindDouble:
		return EncodeDouble(v.f)
	case KindBigint:
		return EncodeBigint(v.big), nil
	case KindString:
		return EncodeString(v.s)
	case KindArray:
		return EncodeArray(v.elems)
	case KindCommand:
		return EncodeCommand(v.s, v.elems)
	default:
		return nil, wrapErrNotImplemented(v.kind)
	}
}

// body is the encoding without its BufferEnd, as composites embed it.
func (v Value) body() []byte {
	if v.buf == nil {
		return withoutEnd(EncodeNull())
	}
	return withoutEnd(v.buf)
}

// Len reports the byte length of a String, the element count of an Array or
// the argument count of a Command.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindString:
		return len(v.s), true
	case KindArray, KindCommand:
		return len(v.elems), true
	default:
		return 0, false
	}
}

// Modifier reports the sign byte of an Integer, Double or Bigint.
func (v Value) Modifier() (byte, bool) {
	var neg bool
	switch v.kind {
	case KindInteger:
		neg = v.i < 0
	case KindDouble:
		neg = v.f < 0
	case KindBigint:
		neg = v.big.Sign() < 0
	default:
		return 0, false
	}
	return signOf(neg), true
}

// Equal reports whether v and o hold the same value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.b == o.b
	case KindInteger:
		return v.i == o.i
	case KindDouble:
		return v.f == o.f
	case KindBigint:
		return v.big.Cmp(o.big) == 0
	case KindString:
		return v.s == o.s
	case KindCommand:
		if v.s != o.s {
			return false
		}
		return equalValues(v.elems, o.elems)
	case KindArray:
		return equalValues(v.elems, o.elems)
	default:
		return bytes.Equal(v.buf, o.buf)
	}
}

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneValues(vs []Value) []Value {
	if vs == nil {
		return nil
	}
	return append(make([]Value, 0, len(vs)), vs...)
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
