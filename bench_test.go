package coproto

import (
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

var (
	benchSample     Value
	benchSampleCP   []byte
	benchSampleCBOR []byte
	benchSampleAny  any
)

var sinkBytes []byte
var sinkAny any
var sinkValue Value

func init() {
	huge, _ := new(big.Int).SetString("987654321098765432109876543210", 10)
	row := func(i int) Value {
		v, err := ArrayOf(i, "sensor", float64(i)+0.5, i%2 == 0, nil)
		if err != nil {
			panic(err)
		}
		return v
	}
	rows := make([]Value, 0, 32)
	for i := 0; i < 32; i++ {
		rows = append(rows, row(i))
	}
	table, err := ArrayValue(rows...)
	if err != nil {
		panic(err)
	}
	sample, err := CommandValue("BATCH", table, BigintValue(huge))
	if err != nil {
		panic(err)
	}
	benchSample = sample
	benchSampleCP = sample.Bytes()
	benchSampleAny = sample.Interface()
	out, err := ToCBOR(sample)
	if err != nil {
		panic(err)
	}
	benchSampleCBOR = out
}

func BenchmarkEncodeInteger(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkBytes = EncodeInteger(int64(i) * 7919)
	}
}

func BenchmarkDecodeInteger(b *testing.B) {
	enc := EncodeInteger(-1234567890123)
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	for i := 0; i < b.N; i++ {
		v, err := DecodeInteger(enc)
		if err != nil {
			b.Fatal(err)
		}
		sinkAny = v
	}
}

func BenchmarkCoprotoEncodeOnly(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSampleCP)))
	_, args, _ := benchSample.AsCommand()
	for i := 0; i < b.N; i++ {
		out, err := EncodeCommand("BATCH", args)
		if err != nil {
			b.Fatal(err)
		}
		sinkBytes = out
	}
}

func BenchmarkCoprotoDecodeOnly(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSampleCP)))
	for i := 0; i < b.N; i++ {
		v, err := DecodeCommandValue(benchSampleCP)
		if err != nil {
			b.Fatal(err)
		}
		sinkValue = v
	}
}

func BenchmarkCBOREncodeOnly(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSampleCBOR)))
	for i := 0; i < b.N; i++ {
		out, err := cbor.Marshal(benchSampleAny)
		if err != nil {
			b.Fatal(err)
		}
		sinkBytes = out
	}
}

func BenchmarkCBORDecodeOnly(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSampleCBOR)))
	for i := 0; i < b.N; i++ {
		var obj any
		if err := cborDec.Unmarshal(benchSampleCBOR, &obj); err != nil {
			b.Fatal(err)
		}
		sinkAny = obj
	}
}

func BenchmarkToJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out, err := ToJSON(benchSample)
		if err != nil {
			b.Fatal(err)
		}
		sinkAny = out
	}
}
