package coproto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/minio/simdjson-go"
)

// FromJSON parses a JSON document into a Value. Arrays are parsed with
// simdjson-go when the CPU supports it; scalars and unsupported CPUs go
// through encoding/json. Whole numbers become Integer, or Bigint beyond
// int64. Objects fail with ErrNotImplemented.
func FromJSON(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("json input is empty")
	}
	if trimmed[0] == '{' {
		return Value{}, wrapErrNotImplemented(KindTable)
	}
	if trimmed[0] != '[' || !simdjson.SupportedCPU() {
		return valueFromStdJSON(trimmed)
	}
	parsed, err := simdjson.Parse(trimmed, nil)
	if err != nil {
		return Value{}, err
	}
	it := parsed.Iter()
	if it.Advance() != simdjson.TypeRoot {
		return Value{}, fmt.Errorf("json root not found")
	}
	typ, root, err := it.Root(nil)
	if err != nil {
		return Value{}, err
	}
	v, err := valueFromJSONIter(typ, root)
	if errors.Is(err, errJSONWideInteger) {
		return valueFromStdJSON(trimmed)
	}
	return v, err
}

// errJSONWideInteger reports an integer literal simdjson could only hold as
// a float64. The document is re-read with encoding/json to keep every digit.
var errJSONWideInteger = errors.New("json integer exceeds 64 bits")

func valueFromStdJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err == nil || err != io.EOF {
		return Value{}, fmt.Errorf("invalid character after top-level value")
	}
	return valueFromAny(v)
}

func valueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(val), nil
	case json.Number:
		return valueFromNumber(string(val))
	case string:
		return StringValue(val)
	case []any:
		elems := make([]Value, len(val))
		for i, item := range val {
			e, err := valueFromAny(item)
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return ArrayValue(elems...)
	case map[string]any:
		return Value{}, wrapErrNotImplemented(KindTable)
	default:
		return Value{}, fmt.Errorf("unsupported json type %T", v)
	}
}

func valueFromNumber(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i), nil
	}
	if !strings.ContainsAny(s, ".eE") {
		if x, ok := new(big.Int).SetString(s, 10); ok {
			return BigintValue(x), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid json number: %s", s)
	}
	return floatValue(f)
}

func valueFromJSONIter(typ simdjson.Type, it *simdjson.Iter) (Value, error) {
	switch typ {
	case simdjson.TypeNull:
		return NullValue(), nil
	case simdjson.TypeBool:
		v, err := it.Bool()
		if err != nil {
			return Value{}, err
		}
		return BoolValue(v), nil
	case simdjson.TypeInt:
		v, err := it.Int()
		if err != nil {
			return Value{}, err
		}
		return IntValue(v), nil
	case simdjson.TypeUint:
		v, err := it.Uint()
		if err != nil {
			return Value{}, err
		}
		return uintValue(v), nil
	case simdjson.TypeFloat:
		v, flags, err := it.FloatFlags()
		if err != nil {
			return Value{}, err
		}
		if flags.Contains(simdjson.FloatOverflowedInteger) {
			return Value{}, errJSONWideInteger
		}
		return floatValue(v)
	case simdjson.TypeString:
		b, err := it.StringBytes()
		if err != nil {
			return Value{}, err
		}
		return StringValue(string(b))
	case simdjson.TypeObject:
		return Value{}, wrapErrNotImplemented(KindTable)
	case simdjson.TypeArray:
		arr, err := it.Array(nil)
		if err != nil {
			return Value{}, err
		}
		var elems []Value
		iter := arr.Iter()
		for {
			t := iter.Advance()
			if t == simdjson.TypeNone {
				break
			}
			elem := iter
			val, err := valueFromJSONIter(t, &elem)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, val)
		}
		return ArrayValue(elems...)
	default:
		return Value{}, fmt.Errorf("unsupported json type: %v", typ)
	}
}

// ToJSON renders v as JSON text. Bigints are written as bare integer
// literals and Commands as {"command": name, "args": [...]}.
func ToJSON(v Value) (string, error) {
	var sb strings.Builder
	if err := WriteJSON(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteJSON writes the JSON rendering of v to sb.
func WriteJSON(sb *strings.Builder, v Value) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBoolean:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInteger:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindDouble:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("cannot encode non-finite float as json")
		}
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBigint:
		sb.WriteString(v.big.String())
	case KindString:
		writeJSONStringBytes(sb, []byte(v.s))
	case KindArray:
		return writeJSONArray(sb, v.elems)
	case KindCommand:
		sb.WriteString(`{"command":`)
		writeJSONStringBytes(sb, []byte(v.s))
		sb.WriteString(`,"args":`)
		if err := writeJSONArray(sb, v.elems); err != nil {
			return err
		}
		sb.WriteByte('}')
	default:
		return wrapErrNotImplemented(v.kind)
	}
	return nil
}

func writeJSONArray(sb *strings.Builder, elems []Value) error {
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := WriteJSON(sb, e); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

// writeJSONStringBytes writes b as a JSON string. Invalid UTF-8 is written
// as U+FFFD so the output stays valid JSON.
func writeJSONStringBytes(sb *strings.Builder, b []byte) {
	sb.WriteByte('"')
	for len(b) > 0 {
		c := b[0]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(b)
			if r == utf8.RuneError && size == 1 {
				sb.WriteString(`\ufffd`)
			} else {
				sb.Write(b[:size])
			}
			b = b[size:]
			continue
		}
		b = b[1:]
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigit(c >> 4))
				sb.WriteByte(hexDigit(c & 0xF))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
