package transport

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"

	coproto "github.com/starfederation/coproto-go"
)

const (
	readChunk = 4 << 10
	// maxBuffered bounds how much unframed input a Reader holds while
	// waiting for a value to complete.
	maxBuffered = 1 << 20
)

// Reader splits a byte stream into consecutive coproto values. Commands are
// decoded as well as plain values.
type Reader struct {
	r   io.Reader
	buf []byte

	// pending is set once the value at the head of buf failed to decode for
	// lack of input. Every value ends in BufferEnd, so the next attempt waits
	// until one arrives past scanned.
	pending bool
	scanned int
	decodes int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next complete value. It returns io.EOF when the stream
// ends between values and io.ErrUnexpectedEOF when it ends inside one. A
// value that cannot decode for any reason other than missing input is
// returned as the codec error; the stream cannot be resynchronised after it.
func (r *Reader) Next() (coproto.Value, error) {
	for {
		if len(r.buf) > 0 && r.ready() {
			r.decodes++
			v, n, err := coproto.DecodeAny(r.buf)
			if err == nil {
				r.buf = r.buf[n:]
				if len(r.buf) == 0 {
					r.buf = nil
				}
				r.pending, r.scanned = false, 0
				return v, nil
			}
			if !errors.Is(err, coproto.ErrShortBuffer) {
				return coproto.Value{}, err
			}
			r.pending, r.scanned = true, len(r.buf)
		}
		if len(r.buf) >= maxBuffered {
			return coproto.Value{}, errors.Wrapf(ErrMessageTooLarge, "%d bytes without a complete value", len(r.buf))
		}
		if err := r.fill(); err != nil {
			if errors.Is(err, io.EOF) && len(r.buf) > 0 {
				return coproto.Value{}, io.ErrUnexpectedEOF
			}
			return coproto.Value{}, err
		}
	}
}

func (r *Reader) ready() bool {
	if !r.pending {
		return true
	}
	return bytes.IndexByte(r.buf[r.scanned:], coproto.BufferEnd) >= 0
}

// Buffered returns the number of bytes read but not yet returned as values.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

func (r *Reader) fill() error {
	var chunk [readChunk]byte
	for {
		n, err := r.r.Read(chunk[:])
		if n > 0 {
			r.buf = append(r.buf, chunk[:n]...)
			return nil
		}
		if err != nil {
			return err
		}
	}
}
