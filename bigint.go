package coproto

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// EncodeBigint returns the encoding of x, framed exactly like an Integer but
// with no bound on the digit count. A nil x encodes zero.
func EncodeBigint(x *big.Int) []byte {
	if x == nil {
		x = new(big.Int)
	}
	s := x.Text(10)
	neg := x.Sign() < 0
	if neg {
		s = s[1:]
	}
	return encodeSigned(TagBigint, neg, digitValues(s))
}

// DecodeBigint decodes an encoded Bigint.
func DecodeBigint(b []byte) (*big.Int, error) {
	v, end, err := decodeBigintBody(b, 0)
	if err != nil {
		return nil, err
	}
	if _, err := finish(KindBigint, b, end); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeBigintBody(b []byte, pos int) (*big.Int, int, error) {
	if err := checkTag(KindBigint, b, pos); err != nil {
		return nil, 0, err
	}
	neg, digits, end, err := signedRecord(KindBigint, b, pos)
	if err != nil {
		return nil, 0, err
	}
	offset := end - 1 - len(digits)
	if len(digits) == 0 {
		return nil, 0, errEmptyDigits(KindBigint, offset)
	}
	if err := checkDigits(KindBigint, digits, offset); err != nil {
		return nil, 0, err
	}
	x, ok := new(big.Int).SetString(decimalText(neg, digits), 10)
	if !ok {
		return nil, 0, errors.Wrapf(ErrInvalidValue, "%s: unparsable digit run", KindBigint)
	}
	return x, end, nil
}
