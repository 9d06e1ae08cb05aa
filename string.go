package coproto

// EncodeString returns the encoding of s. The payload is raw bytes bounded by
// the one-byte declared length, so it may contain any byte including the
// framing sentinels. Strings over 255 bytes fail with ErrTooLarge.
func EncodeString(s string) ([]byte, error) {
	if len(s) > maxLength {
		return nil, wrapErrTooLarge(KindString, len(s))
	}
	return Concat(
		Val(TagString),
		Val(byte(len(s))),
		Val(StartRecord),
		Arr([]byte(s)),
		Val(EndRecord),
		Val(BufferEnd),
	), nil
}

// DecodeString decodes an encoded String.
func DecodeString(b []byte) (string, error) {
	v, end, err := decodeStringBody(b, 0)
	if err != nil {
		return "", err
	}
	if _, err := finish(KindString, b, end); err != nil {
		return "", err
	}
	return v, nil
}

func decodeStringBody(b []byte, pos int) (string, int, error) {
	if err := checkTag(KindString, b, pos); err != nil {
		return "", 0, err
	}
	if pos+1 >= len(b) {
		return "", 0, wrapErrShortBuffer(KindString, StartRecord, pos+1)
	}
	n := int(b[pos+1])
	if err := expectByte(KindString, b, pos+2, StartRecord); err != nil {
		return "", 0, err
	}
	stop := pos + 3 + n
	if err := expectByte(KindString, b, stop, EndRecord); err != nil {
		return "", 0, err
	}
	return string(b[pos+3 : stop]), stop + 1, nil
}
