package coproto

import (
	"bytes"

	"github.com/cockroachdb/errors"
)

// maxLength bounds the single-byte String length and Array count fields.
const maxLength = 0xFF

func checkTag(kind Kind, b []byte, pos int) error {
	if pos >= len(b) {
		return wrapErrShortBuffer(kind, kind.Tag(), pos)
	}
	if b[pos] != kind.Tag() {
		return wrapErrTagMismatch(kind, b[pos])
	}
	return nil
}

func expectByte(kind Kind, b []byte, at int, want byte) error {
	if at < len(b) && b[at] == want {
		return nil
	}
	return wrapErrDelimiter(kind, want, at, b)
}

// finish checks the BufferEnd closing a top-level value whose body stops at
// end and returns the number of bytes the value occupies.
func finish(kind Kind, b []byte, end int) (int, error) {
	if err := expectByte(kind, b, end, BufferEnd); err != nil {
		return 0, err
	}
	return end + 1, nil
}

// withoutEnd strips the trailing BufferEnd of a complete encoding, leaving
// the body that composites splice into their own framing.
func withoutEnd(enc []byte) []byte {
	if n := len(enc); n > 0 && enc[n-1] == BufferEnd {
		return enc[:n-1]
	}
	return enc
}

func signOf(neg bool) byte {
	if neg {
		return SignMinus
	}
	return SignPlus
}

// digitValues turns an unsigned ASCII decimal string into digit values 0-9.
func digitValues(ascii string) []byte {
	out := make([]byte, len(ascii))
	for i := 0; i < len(ascii); i++ {
		out[i] = ascii[i] - '0'
	}
	return out
}

// signedRecord reads the sign slot and the record of an Integer, Double or
// Bigint body starting at pos. It returns the record content and the offset
// just past EndRecord.
func signedRecord(kind Kind, b []byte, pos int) (neg bool, record []byte, end int, err error) {
	start, sign, err := ScanTo(StartRecord, b, pos)
	if err != nil {
		return false, nil, 0, inKind(kind, err)
	}
	switch len(sign) {
	case 0:
	case 1:
		// Anything that is not '-' reads as '+'.
		neg = sign[0] == SignMinus
	default:
		return false, nil, 0, wrapErrInvalidByte(kind, pos+2, sign[1], "more than one sign byte")
	}
	stop, record, err := ScanTo(EndRecord, b, start)
	if err != nil {
		return false, nil, 0, inKind(kind, err)
	}
	return neg, record, stop + 1, nil
}

// checkDigits validates a digit run located at offset in the input.
func checkDigits(kind Kind, digits []byte, offset int) error {
	for i, d := range digits {
		if d > 9 {
			return wrapErrInvalidByte(kind, offset+i, d, "not a decimal digit")
		}
	}
	return nil
}

// decimalText renders sign and digit runs as ASCII for strconv/math/big.
// Runs after the first are joined with a decimal point.
func decimalText(neg bool, runs ...[]byte) string {
	var sb bytes.Buffer
	if neg {
		sb.WriteByte('-')
	}
	for i, run := range runs {
		if i > 0 {
			sb.WriteByte(DecimalPoint)
		}
		for _, d := range run {
			sb.WriteByte('0' + d)
		}
	}
	return sb.String()
}

func errEmptyDigits(kind Kind, at int) error {
	return errors.Wrapf(ErrInvalidByte, "%s: empty digit run at offset %d", kind, at)
}
