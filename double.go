package coproto

import (
	"bytes"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// EncodeDouble returns the encoding of a non-integral finite float using the
// shortest decimal form that parses back to f. Whole numbers belong to
// Integer and fail with ErrTypeMismatch; NaN and infinities fail with
// ErrInvalidValue.
func EncodeDouble(f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: %v is not finite", KindDouble, f)
	}
	if f == math.Trunc(f) {
		return nil, wrapErrTypeMismatch(KindDouble, f)
	}
	s := strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	dot := []byte{DecimalPoint}
	intPart, fracPart, _ := bytes.Cut([]byte(s), dot)
	return Concat(
		Val(TagDouble),
		Val(signOf(f < 0)),
		Val(StartRecord),
		Arr(digitValues(string(intPart))),
		Val(DecimalPoint),
		Arr(digitValues(string(fracPart))),
		Val(EndRecord),
		Val(BufferEnd),
	), nil
}

// DecodeDouble decodes an encoded Double.
func DecodeDouble(b []byte) (float64, error) {
	v, end, err := decodeDoubleBody(b, 0)
	if err != nil {
		return 0, err
	}
	if _, err := finish(KindDouble, b, end); err != nil {
		return 0, err
	}
	return v, nil
}

func decodeDoubleBody(b []byte, pos int) (float64, int, error) {
	if err := checkTag(KindDouble, b, pos); err != nil {
		return 0, 0, err
	}
	neg, record, end, err := signedRecord(KindDouble, b, pos)
	if err != nil {
		return 0, 0, err
	}
	offset := end - 1 - len(record)
	dot := bytes.IndexByte(record, DecimalPoint)
	if dot < 0 {
		return 0, 0, errors.Wrapf(ErrDelimiterNotFound, "%s: no decimal point in record at offset %d", KindDouble, offset)
	}
	intDigits, fracDigits := record[:dot], record[dot+1:]
	if len(intDigits)+len(fracDigits) == 0 {
		return 0, 0, errEmptyDigits(KindDouble, offset)
	}
	if err := checkDigits(KindDouble, intDigits, offset); err != nil {
		return 0, 0, err
	}
	if err := checkDigits(KindDouble, fracDigits, offset+dot+1); err != nil {
		return 0, 0, err
	}
	f, err := strconv.ParseFloat(decimalText(neg, intDigits, fracDigits), 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidValue, "%s: %v", KindDouble, err)
	}
	if f == math.Trunc(f) {
		return 0, 0, errors.Wrapf(ErrInvalidValue, "%s: record holds whole number %v", KindDouble, f)
	}
	return f, end, nil
}
