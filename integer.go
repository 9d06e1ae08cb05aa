package coproto

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// EncodeInteger returns the encoding of v: sign, then one byte per decimal
// digit holding the digit value.
func EncodeInteger(v int64) []byte {
	return encodeSigned(TagInteger, v < 0, integerDigits(v))
}

// EncodeIntegerFromFloat encodes a whole float as an Integer. Fractional
// values fail with ErrTypeMismatch and values outside int64 with ErrOverflow.
func EncodeIntegerFromFloat(f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, wrapErrTypeMismatch(KindInteger, f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, errors.Wrapf(ErrOverflow, "%s: %v out of int64 range", KindInteger, f)
	}
	return EncodeInteger(int64(f)), nil
}

// DecodeInteger decodes an encoded Integer.
func DecodeInteger(b []byte) (int64, error) {
	v, end, err := decodeIntegerBody(b, 0)
	if err != nil {
		return 0, err
	}
	if _, err := finish(KindInteger, b, end); err != nil {
		return 0, err
	}
	return v, nil
}

func decodeIntegerBody(b []byte, pos int) (int64, int, error) {
	if err := checkTag(KindInteger, b, pos); err != nil {
		return 0, 0, err
	}
	neg, digits, end, err := signedRecord(KindInteger, b, pos)
	if err != nil {
		return 0, 0, err
	}
	offset := end - 1 - len(digits)
	if len(digits) == 0 {
		return 0, 0, errEmptyDigits(KindInteger, offset)
	}
	var acc int64
	for i, d := range digits {
		if d > 9 {
			return 0, 0, wrapErrInvalidByte(KindInteger, offset+i, d, "not a decimal digit")
		}
		if neg {
			if acc < (math.MinInt64+int64(d))/10 {
				return 0, 0, errors.Wrapf(ErrOverflow, "%s: below int64 range", KindInteger)
			}
			acc = acc*10 - int64(d)
			continue
		}
		if acc > (math.MaxInt64-int64(d))/10 {
			return 0, 0, errors.Wrapf(ErrOverflow, "%s: above int64 range", KindInteger)
		}
		acc = acc*10 + int64(d)
	}
	return acc, end, nil
}

func integerDigits(v int64) []byte {
	s := strconv.FormatInt(v, 10)
	if v < 0 {
		s = s[1:]
	}
	return digitValues(s)
}

// encodeSigned frames a digit run the way Integer and Bigint share.
func encodeSigned(tag byte, neg bool, digits []byte) []byte {
	return Concat(
		Val(tag),
		Val(signOf(neg)),
		Val(StartRecord),
		Arr(digits),
		Val(EndRecord),
		Val(BufferEnd),
	)
}
