package coproto

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/delaneyj/toolbelt/bytebufferpool"
)

// Part is one argument to Concat: either a single byte or a byte run.
type Part struct {
	b     byte
	run   []byte
	isRun bool
}

// Val wraps a single byte.
func Val(b byte) Part {
	return Part{b: b}
}

// Arr wraps a byte run. The run is copied by Concat, never retained.
func Arr(run []byte) Part {
	return Part{run: run, isRun: true}
}

// Concat flattens parts into one freshly allocated buffer, preserving order.
func Concat(parts ...Part) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for _, p := range parts {
		if p.isRun {
			buf.Write(p.run)
			continue
		}
		buf.WriteByte(p.b)
	}
	return append([]byte(nil), buf.Bytes()...)
}

// ScanTo finds the first index after from holding target and returns it with
// the bytes strictly between from and that index. The span aliases b.
func ScanTo(target byte, b []byte, from int) (int, []byte, error) {
	start := from + 1
	if start < 0 {
		start = 0
	}
	if start > len(b) {
		start = len(b)
	}
	i := bytes.IndexByte(b[start:], target)
	if i < 0 {
		return 0, nil, &shortBufferError{
			cause: errors.Wrapf(ErrDelimiterNotFound, "byte %#02x not found after offset %d", target, from),
		}
	}
	found := start + i
	return found, b[start:found], nil
}

// SplitOnDelimiter splits b on every ValueDelimiter, dropping the delimiter.
// A trailing empty segment is kept when b ends with the delimiter. The split
// is flat: it knows nothing about nested values or String payloads.
func SplitOnDelimiter(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	var segments [][]byte
	for {
		i := bytes.IndexByte(b, ValueDelimiter)
		if i < 0 {
			break
		}
		segments = append(segments, b[:i])
		b = b[i+1:]
	}
	return append(segments, b)
}
