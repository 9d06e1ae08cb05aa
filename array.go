package coproto

// EncodeArray returns the encoding of elems: tag, element count, then each
// element body followed by a ValueDelimiter. Arrays over 255 elements fail
// with ErrTooLarge.
func EncodeArray(elems []Value) ([]byte, error) {
	if len(elems) > maxLength {
		return nil, wrapErrTooLarge(KindArray, len(elems))
	}
	parts := getPartSlice(3 + 2*len(elems))
	parts = append(parts, Val(TagArray), Val(byte(len(elems))))
	for _, e := range elems {
		parts = append(parts, Arr(e.body()), Val(ValueDelimiter))
	}
	parts = append(parts, Val(BufferEnd))
	out := Concat(parts...)
	putPartSlice(parts)
	return out, nil
}

// DecodeArray decodes an encoded Array. Elements are walked structurally so
// nested composites and String payloads holding delimiter bytes decode
// correctly.
func DecodeArray(b []byte) ([]Value, error) {
	elems, end, err := decodeArrayBody(b, 0)
	if err != nil {
		return nil, err
	}
	if _, err := finish(KindArray, b, end); err != nil {
		return nil, err
	}
	return elems, nil
}

func decodeArrayBody(b []byte, pos int) ([]Value, int, error) {
	if err := checkTag(KindArray, b, pos); err != nil {
		return nil, 0, err
	}
	if pos+1 >= len(b) {
		return nil, 0, wrapErrShortBuffer(KindArray, ValueDelimiter, pos+1)
	}
	n := int(b[pos+1])
	at := pos + 2
	elems := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, next, err := decodeBody(b, at)
		if err != nil {
			return nil, 0, inKind(KindArray, err)
		}
		if err := expectByte(KindArray, b, next, ValueDelimiter); err != nil {
			return nil, 0, err
		}
		elems = append(elems, v)
		at = next + 1
	}
	return elems, at, nil
}
