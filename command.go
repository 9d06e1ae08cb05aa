package coproto

// EncodeCommand returns the encoding of a named command: tag, the name as a
// String body, a ValueDelimiter, then the arguments as an Array body.
func EncodeCommand(name string, args []Value) ([]byte, error) {
	nameEnc, err := EncodeString(name)
	if err != nil {
		return nil, inKind(KindCommand, err)
	}
	argsEnc, err := EncodeArray(args)
	if err != nil {
		return nil, inKind(KindCommand, err)
	}
	return Concat(
		Val(TagCommand),
		Arr(withoutEnd(nameEnc)),
		Val(ValueDelimiter),
		Arr(withoutEnd(argsEnc)),
		Val(BufferEnd),
	), nil
}

// DecodeCommand decodes an encoded Command into its name and arguments.
func DecodeCommand(b []byte) (string, []Value, error) {
	name, args, end, err := decodeCommandBody(b, 0)
	if err != nil {
		return "", nil, err
	}
	if _, err := finish(KindCommand, b, end); err != nil {
		return "", nil, err
	}
	return name, args, nil
}

// DecodeCommandValue is DecodeCommand returning a Value.
func DecodeCommandValue(b []byte) (Value, error) {
	v, _, err := DecodeCommandValueN(b)
	return v, err
}

// DecodeCommandValueN is DecodeCommandValue that also reports how many bytes
// of b the Command occupied.
func DecodeCommandValueN(b []byte) (Value, int, error) {
	name, args, end, err := decodeCommandBody(b, 0)
	if err != nil {
		return Value{}, 0, err
	}
	n, err := finish(KindCommand, b, end)
	if err != nil {
		return Value{}, 0, err
	}
	v := Value{kind: KindCommand, s: name, elems: args}
	if v.buf, err = v.encodeNative(); err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

func decodeCommandBody(b []byte, pos int) (string, []Value, int, error) {
	if err := checkTag(KindCommand, b, pos); err != nil {
		return "", nil, 0, err
	}
	name, next, err := decodeStringBody(b, pos+1)
	if err != nil {
		return "", nil, 0, inKind(KindCommand, err)
	}
	if err := expectByte(KindCommand, b, next, ValueDelimiter); err != nil {
		return "", nil, 0, err
	}
	args, end, err := decodeArrayBody(b, next+1)
	if err != nil {
		return "", nil, 0, inKind(KindCommand, err)
	}
	return name, args, end, nil
}
