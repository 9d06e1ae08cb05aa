package coproto

import (
	"bytes"
	"math/big"
	"testing"
)

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if v.Kind() != KindNull {
		t.Fatalf("zero kind = %s", v.Kind())
	}
	if !bytes.Equal(v.Bytes(), EncodeNull()) {
		t.Fatalf("zero bytes = %x", v.Bytes())
	}
	arr := must(ArrayValue(v))
	got, err := Decode(arr.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(must(ArrayValue(NullValue()))) {
		t.Fatalf("array of zero value = %v", got)
	}
}

func TestBytesReturnsCopy(t *testing.T) {
	v := IntValue(5)
	b := v.Bytes()
	b[0] = 0
	if v.Bytes()[0] != TagInteger {
		t.Fatalf("mutating Bytes changed the value")
	}
}

func TestLenAndModifier(t *testing.T) {
	cases := []struct {
		v     Value
		len   int
		lenOK bool
		mod   byte
		modOK bool
	}{
		{NullValue(), 0, false, 0, false},
		{BoolValue(true), 0, false, 0, false},
		{IntValue(-3), 0, false, SignMinus, true},
		{IntValue(3), 0, false, SignPlus, true},
		{must(DoubleValue(-0.5)), 0, false, SignMinus, true},
		{BigintValue(big.NewInt(1)), 0, false, SignPlus, true},
		{must(StringValue("héllo")), 6, true, 0, false},
		{must(ArrayOf(1, 2)), 2, true, 0, false},
		{must(CommandOf("GO", 1, 2, 3)), 3, true, 0, false},
	}
	for _, tc := range cases {
		n, ok := tc.v.Len()
		if n != tc.len || ok != tc.lenOK {
			t.Fatalf("%v Len = %d %v, want %d %v", tc.v, n, ok, tc.len, tc.lenOK)
		}
		m, ok := tc.v.Modifier()
		if m != tc.mod || ok != tc.modOK {
			t.Fatalf("%v Modifier = %q %v, want %q %v", tc.v, m, ok, tc.mod, tc.modOK)
		}
	}
}

func TestValueImmutable(t *testing.T) {
	elems := []Value{IntValue(1), IntValue(2)}
	arr := must(ArrayValue(elems...))
	elems[0] = IntValue(99)
	got, _ := arr.AsArray()
	if !got[0].Equal(IntValue(1)) {
		t.Fatalf("array shares its input slice")
	}
	got[1] = IntValue(99)
	again, _ := arr.AsArray()
	if !again[1].Equal(IntValue(2)) {
		t.Fatalf("AsArray exposes internal slice")
	}

	x := big.NewInt(10)
	bv := BigintValue(x)
	x.SetInt64(11)
	if n, _ := bv.AsInt64(); n != 10 {
		t.Fatalf("bigint shares its input: %d", n)
	}
}

func TestAccessors(t *testing.T) {
	if n, ok := BigintValue(big.NewInt(-4)).AsInt64(); !ok || n != -4 {
		t.Fatalf("bigint AsInt64 = %d %v", n, ok)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	if _, ok := BigintValue(huge).AsInt64(); ok {
		t.Fatalf("2^80 converted to int64")
	}
	if f, ok := IntValue(2).AsFloat64(); !ok || f != 2 {
		t.Fatalf("integer AsFloat64 = %v %v", f, ok)
	}
	if x, ok := IntValue(9).AsBigInt(); !ok || x.Int64() != 9 {
		t.Fatalf("integer AsBigInt = %v %v", x, ok)
	}
	if s, ok := IntValue(9).AsString(); ok {
		t.Fatalf("integer AsString = %q", s)
	}
	if b, ok := BoolValue(true).AsBool(); !ok || !b {
		t.Fatalf("AsBool = %v %v", b, ok)
	}
}

func TestInterface(t *testing.T) {
	cmd := must(CommandOf("GO", "x", 1))
	m, ok := cmd.Interface().(map[string]any)
	if !ok {
		t.Fatalf("command interface = %T", cmd.Interface())
	}
	if m["command"] != "GO" {
		t.Fatalf("command name = %v", m["command"])
	}
	args := m["args"].([]any)
	if len(args) != 2 || args[0] != "x" || args[1] != int64(1) {
		t.Fatalf("command args = %v", args)
	}
	if NullValue().Interface() != nil {
		t.Fatalf("null interface not nil")
	}
}

func TestValueString(t *testing.T) {
	arr := must(ArrayOf(1, "a", nil, 0.5))
	if got, want := arr.String(), `Array[Integer(1), String("a"), Null, Double(0.5)]`; got != want {
		t.Fatalf("string = %s, want %s", got, want)
	}
	cmd := must(CommandOf("GO", true))
	if got, want := cmd.String(), `Command("GO")[Boolean(true)]`; got != want {
		t.Fatalf("string = %s, want %s", got, want)
	}
}
