package coproto

// EncodeBoolean returns the encoding of v. The bit is the raw byte 0 or 1.
func EncodeBoolean(v bool) []byte {
	var bit byte
	if v {
		bit = 1
	}
	return Concat(Val(TagBoolean), Val(StartRecord), Val(bit), Val(EndRecord), Val(BufferEnd))
}

// DecodeBoolean decodes an encoded Boolean.
func DecodeBoolean(b []byte) (bool, error) {
	v, end, err := decodeBooleanBody(b, 0)
	if err != nil {
		return false, err
	}
	if _, err := finish(KindBoolean, b, end); err != nil {
		return false, err
	}
	return v, nil
}

func decodeBooleanBody(b []byte, pos int) (bool, int, error) {
	if err := checkTag(KindBoolean, b, pos); err != nil {
		return false, 0, err
	}
	if err := expectByte(KindBoolean, b, pos+1, StartRecord); err != nil {
		return false, 0, err
	}
	at := pos + 2
	if at >= len(b) {
		return false, 0, wrapErrShortBuffer(KindBoolean, EndRecord, at)
	}
	var v bool
	switch b[at] {
	case 0:
	case 1:
		v = true
	default:
		return false, 0, wrapErrInvalidByte(KindBoolean, at, b[at], "bit must be 0 or 1")
	}
	if err := expectByte(KindBoolean, b, at+1, EndRecord); err != nil {
		return false, 0, err
	}
	return v, at + 2, nil
}
