package coproto

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// CBORCommandTag is the CBOR tag number wrapping [name, args] for Commands.
const CBORCommandTag = 0x636f70

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	em, err := cbor.EncOptions{
		BigIntConvert: cbor.BigIntConvertNone,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	cborEnc = em
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any{}),
		BigIntDec:      cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	cborDec = dm
}

// ToCBOR encodes v as CBOR. Bigints are always written as bignums, Commands
// as tag CBORCommandTag wrapping [name, args].
func ToCBOR(v Value) ([]byte, error) {
	native, err := cborNative(v)
	if err != nil {
		return nil, err
	}
	return cborEnc.Marshal(native)
}

func cborNative(v Value) (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBoolean:
		return v.b, nil
	case KindInteger:
		return v.i, nil
	case KindDouble:
		return v.f, nil
	case KindBigint:
		return new(big.Int).Set(v.big), nil
	case KindString:
		return v.s, nil
	case KindArray:
		return cborNatives(v.elems)
	case KindCommand:
		args, err := cborNatives(v.elems)
		if err != nil {
			return nil, err
		}
		return cbor.Tag{Number: CBORCommandTag, Content: []any{v.s, args}}, nil
	default:
		return nil, wrapErrNotImplemented(v.kind)
	}
}

func cborNatives(elems []Value) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		n, err := cborNative(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// FromCBOR decodes one CBOR data item into a Value. Byte strings become
// Strings and maps fail with ErrNotImplemented.
func FromCBOR(data []byte) (Value, error) {
	var native any
	if err := cborDec.Unmarshal(data, &native); err != nil {
		return Value{}, err
	}
	return valueFromCBOR(native)
}

func valueFromCBOR(native any) (Value, error) {
	switch x := native.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case uint64:
		return uintValue(x), nil
	case int64:
		return IntValue(x), nil
	case float64:
		return floatValue(x)
	case *big.Int:
		return BigintValue(x), nil
	case big.Int:
		return BigintValue(&x), nil
	case string:
		return StringValue(x)
	case []byte:
		return StringValue(string(x))
	case []any:
		elems := make([]Value, len(x))
		for i, item := range x {
			e, err := valueFromCBOR(item)
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return ArrayValue(elems...)
	case map[string]any, map[any]any:
		return Value{}, wrapErrNotImplemented(KindTable)
	case cbor.Tag:
		return commandFromCBOR(x)
	default:
		return Value{}, fmt.Errorf("unsupported cbor item %T", native)
	}
}

func commandFromCBOR(tag cbor.Tag) (Value, error) {
	if tag.Number != CBORCommandTag {
		return Value{}, fmt.Errorf("unsupported cbor tag %d", tag.Number)
	}
	content, ok := tag.Content.([]any)
	if !ok || len(content) != 2 {
		return Value{}, fmt.Errorf("command tag content must be [name, args]")
	}
	name, ok := content[0].(string)
	if !ok {
		return Value{}, fmt.Errorf("command name must be a text string, got %T", content[0])
	}
	rawArgs, ok := content[1].([]any)
	if !ok {
		return Value{}, fmt.Errorf("command args must be an array, got %T", content[1])
	}
	args := make([]Value, len(rawArgs))
	for i, item := range rawArgs {
		a, err := valueFromCBOR(item)
		if err != nil {
			return Value{}, err
		}
		args[i] = a
	}
	return CommandValue(name, args...)
}
