package transport

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	coproto "github.com/starfederation/coproto-go"
)

func streamOf(t *testing.T, values ...coproto.Value) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range values {
		buf.Write(v.Bytes())
	}
	return buf.Bytes()
}

func TestReaderReassembles(t *testing.T) {
	tricky, err := coproto.StringValue(string([]byte{coproto.BufferEnd, coproto.ValueDelimiter}))
	require.NoError(t, err)
	cmd, err := coproto.CommandOf("MSG", "1.1", 5)
	require.NoError(t, err)
	values := []coproto.Value{coproto.IntValue(-9), tricky, cmd, coproto.NullValue()}

	r := NewReader(iotest.OneByteReader(bytes.NewReader(streamOf(t, values...))))
	for i, want := range values {
		got, err := r.Next()
		require.NoError(t, err, "value %d", i)
		require.True(t, got.Equal(want), "value %d = %v, want %v", i, got, want)
	}
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, r.Buffered())
}

func TestReaderTruncated(t *testing.T) {
	stream := streamOf(t, coproto.IntValue(12345))
	r := NewReader(bytes.NewReader(stream[:len(stream)-2]))
	_, err := r.Next()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReaderCorrupt(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{'Z', coproto.BufferEnd}))
	_, err := r.Next()
	require.ErrorIs(t, err, coproto.ErrUnknownTag)
	require.True(t, isStreamError(err))
}

func TestReaderWaitsForBufferEnd(t *testing.T) {
	words := make([]any, 50)
	for i := range words {
		words[i] = "abcdefgh"
	}
	inner, err := coproto.ArrayOf(words...)
	require.NoError(t, err)
	outer, err := coproto.ArrayValue(inner, inner)
	require.NoError(t, err)

	r := NewReader(iotest.OneByteReader(bytes.NewReader(streamOf(t, outer, outer))))
	for i := 0; i < 2; i++ {
		got, err := r.Next()
		require.NoError(t, err)
		require.True(t, got.Equal(outer))
	}
	// One attempt on the first byte of each value and one once its
	// BufferEnd arrived.
	require.Equal(t, 4, r.decodes)
}

func TestReaderCorruptWithoutBufferEnd(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{'Z', 'Z', 'Z'}))
	_, err := r.Next()
	require.ErrorIs(t, err, coproto.ErrUnknownTag)
}
