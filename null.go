package coproto

// EncodeNull returns the encoding of Null.
func EncodeNull() []byte {
	return Concat(Val(TagNull), Val(StartRecord), Val(EndRecord), Val(BufferEnd))
}

// DecodeNull checks that b holds an encoded Null.
func DecodeNull(b []byte) error {
	end, err := decodeNullBody(b, 0)
	if err != nil {
		return err
	}
	_, err = finish(KindNull, b, end)
	return err
}

func decodeNullBody(b []byte, pos int) (int, error) {
	if err := checkTag(KindNull, b, pos); err != nil {
		return 0, err
	}
	if err := expectByte(KindNull, b, pos+1, StartRecord); err != nil {
		return 0, err
	}
	if err := expectByte(KindNull, b, pos+2, EndRecord); err != nil {
		return 0, err
	}
	return pos + 3, nil
}
