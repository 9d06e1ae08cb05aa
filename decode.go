package coproto

import "github.com/cockroachdb/errors"

// Decode decodes one top-level encoded value. Bytes after its BufferEnd are
// ignored. Commands decode through DecodeCommandValue; Command, NamedV and
// Table tags fail here with ErrNotImplemented.
func Decode(b []byte) (Value, error) {
	v, _, err := DecodeN(b)
	return v, err
}

// DecodeN is Decode that also reports how many bytes of b the value occupied,
// BufferEnd included.
func DecodeN(b []byte) (Value, int, error) {
	if len(b) == 0 {
		return Value{}, 0, &shortBufferError{cause: errors.Wrap(ErrDelimiterNotFound, "empty input")}
	}
	kind, ok := KindFromTag(b[0])
	if !ok {
		return Value{}, 0, &UnknownTagError{Tag: b[0]}
	}
	switch kind {
	case KindCommand, KindNamedValue, KindTable:
		return Value{}, 0, wrapErrNotImplemented(kind)
	}
	v, end, err := decodeBody(b, 0)
	if err != nil {
		return Value{}, 0, err
	}
	n, err := finish(kind, b, end)
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeAny decodes any top-level value the package can decode, Commands
// included, and reports the consumed length.
func DecodeAny(b []byte) (Value, int, error) {
	if len(b) > 0 && b[0] == TagCommand {
		return DecodeCommandValueN(b)
	}
	return DecodeN(b)
}

// decodeBody decodes the value body starting at pos and returns the offset
// just past it. The Value's buffer is re-encoded from the decoded fields, so
// lenient input such as an unknown sign byte or leading zeros is not kept.
func decodeBody(b []byte, pos int) (Value, int, error) {
	if pos >= len(b) {
		return Value{}, 0, &shortBufferError{
			cause: errors.Wrapf(ErrDelimiterNotFound, "input ended at offset %d looking for a tag", pos),
		}
	}
	kind, ok := KindFromTag(b[pos])
	if !ok {
		return Value{}, 0, &UnknownTagError{Tag: b[pos]}
	}
	v := Value{kind: kind}
	var (
		end int
		err error
	)
	switch kind {
	case KindNull:
		end, err = decodeNullBody(b, pos)
	case KindBoolean:
		v.b, end, err = decodeBooleanBody(b, pos)
	case KindInteger:
		v.i, end, err = decodeIntegerBody(b, pos)
	case KindDouble:
		v.f, end, err = decodeDoubleBody(b, pos)
	case KindBigint:
		v.big, end, err = decodeBigintBody(b, pos)
	case KindString:
		v.s, end, err = decodeStringBody(b, pos)
	case KindArray:
		v.elems, end, err = decodeArrayBody(b, pos)
	case KindCommand:
		v.s, v.elems, end, err = decodeCommandBody(b, pos)
	default:
		err = wrapErrNotImplemented(kind)
	}
	if err != nil {
		return Value{}, 0, err
	}
	if v.buf, err = v.encodeNative(); err != nil {
		return Value{}, 0, err
	}
	return v, end, nil
}
