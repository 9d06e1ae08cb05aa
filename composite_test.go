package coproto

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

// must unwraps a constructor result in tests where the input is known good.
func must(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}

func TestArrayEncoding(t *testing.T) {
	arr := must(ArrayValue(IntValue(1), NullValue()))
	want := []byte{
		TagArray, 2,
		TagInteger, SignPlus, StartRecord, 1, EndRecord, ValueDelimiter,
		TagNull, StartRecord, EndRecord, ValueDelimiter,
		BufferEnd,
	}
	if got := arr.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("array = %x, want %x", got, want)
	}
	if bytes.Count(arr.Bytes(), []byte{BufferEnd}) != 1 {
		t.Fatalf("array carries more than one buffer end")
	}
}

func TestArrayRoundTrip(t *testing.T) {
	elems := []Value{
		NullValue(),
		BoolValue(true),
		IntValue(-42),
		must(DoubleValue(2.75)),
		BigintValue(new(big.Int).Lsh(big.NewInt(1), 100)),
		must(StringValue("plain")),
		must(StringValue(string([]byte{ValueDelimiter, BufferEnd, EndRecord}))),
	}
	enc, err := EncodeArray(elems)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeArray(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !equalValues(got, elems) {
		t.Fatalf("array = %v, want %v", got, elems)
	}
	for i := range got {
		if !bytes.Equal(got[i].Bytes(), elems[i].Bytes()) {
			t.Fatalf("element %d buffer = %x, want %x", i, got[i].Bytes(), elems[i].Bytes())
		}
	}
}

func TestEmptyArray(t *testing.T) {
	enc, err := EncodeArray(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := []byte{TagArray, 0, BufferEnd}; !bytes.Equal(enc, want) {
		t.Fatalf("empty array = %x, want %x", enc, want)
	}
	got, err := DecodeArray(enc)
	if err != nil || len(got) != 0 {
		t.Fatalf("decode empty = %v %v", got, err)
	}
}

func TestNestedArray(t *testing.T) {
	inner := must(ArrayOf(1, "two", nil))
	cmd := must(CommandOf("PING", 3.5))
	outer := must(ArrayValue(inner, must(ArrayValue()), cmd, IntValue(9)))
	got, err := Decode(outer.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(outer) {
		t.Fatalf("nested = %v, want %v", got, outer)
	}
	elems, _ := got.AsArray()
	if n, _ := elems[0].Len(); n != 3 {
		t.Fatalf("inner len = %d, want 3", n)
	}
	if name, args, ok := elems[2].AsCommand(); !ok || name != "PING" || len(args) != 1 {
		t.Fatalf("nested command = %q %v %v", name, args, ok)
	}
}

func TestArrayErrors(t *testing.T) {
	if _, err := EncodeArray(make([]Value, maxLength+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("too many elements err = %v", err)
	}
	_, err := DecodeArray([]byte{TagArray, 1, TagNull, StartRecord, EndRecord, BufferEnd})
	if !errors.Is(err, ErrDelimiterNotFound) {
		t.Fatalf("missing value delimiter err = %v", err)
	}
	_, err = DecodeArray([]byte{TagArray, 2, TagNull, StartRecord, EndRecord, ValueDelimiter})
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("truncated array err = %v", err)
	}
	_, err = DecodeArray([]byte{TagArray, 1, 'Z', ValueDelimiter, BufferEnd})
	var ut *UnknownTagError
	if !errors.As(err, &ut) || ut.Tag != 'Z' {
		t.Fatalf("unknown element tag err = %v", err)
	}
	if _, err := DecodeArray(EncodeNull()); !errors.Is(err, ErrTagMismatch) {
		t.Fatalf("null as array err = %v", err)
	}
}

func TestCommandEncoding(t *testing.T) {
	enc, err := EncodeCommand("GO", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		TagCommand,
		TagString, 2, StartRecord, 'G', 'O', EndRecord,
		ValueDelimiter,
		TagArray, 0,
		BufferEnd,
	}
	if !bytes.Equal(enc, want) {
		t.Fatalf("command = %x, want %x", enc, want)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	args := []Value{must(StringValue("abc")), IntValue(1), must(ArrayOf(true, false))}
	enc, err := EncodeCommand("SET", args)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	name, got, err := DecodeCommand(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if name != "SET" || !equalValues(got, args) {
		t.Fatalf("command = %q %v", name, got)
	}
	v, err := DecodeCommandValue(enc)
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if n, ok := v.Len(); !ok || n != 3 {
		t.Fatalf("command len = %d %v, want 3", n, ok)
	}
	if !bytes.Equal(v.Bytes(), enc) {
		t.Fatalf("command buffer = %x, want %x", v.Bytes(), enc)
	}
}

func TestCommandErrors(t *testing.T) {
	if _, _, err := DecodeCommand(EncodeNull()); !errors.Is(err, ErrTagMismatch) {
		t.Fatalf("null as command err = %v", err)
	}
	enc, err := EncodeCommand("X", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	broken := append([]byte(nil), enc...)
	broken[6] = EndRecord
	if _, _, err := DecodeCommand(broken); !errors.Is(err, ErrDelimiterNotFound) {
		t.Fatalf("missing delimiter err = %v", err)
	}
	if _, _, err := DecodeCommand(enc[:len(enc)-1]); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("truncated command err = %v", err)
	}
	if _, err := CommandValue(string(make([]byte, maxLength+1))); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("long name err = %v", err)
	}
}
