package coproto

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Leaf errors. Every failure returned by this package matches exactly one of
// the first ten with errors.Is; ErrShortBuffer is an additional marker on
// ErrDelimiterNotFound when the input ended before the structure was complete.
var (
	ErrTagMismatch       = newCodecError("coproto: tag mismatch", 1)
	ErrDelimiterNotFound = newCodecError("coproto: delimiter not found", 2)
	ErrUnsupportedType   = newCodecError("coproto: unsupported type", 3)
	ErrUnknownTag        = newCodecError("coproto: unknown tag", 4)
	ErrNotImplemented    = newCodecError("coproto: not implemented", 5)
	ErrTypeMismatch      = newCodecError("coproto: type mismatch", 6)
	ErrInvalidByte       = newCodecError("coproto: invalid byte", 7)
	ErrInvalidValue      = newCodecError("coproto: invalid value", 8)
	ErrOverflow          = newCodecError("coproto: value overflows", 9)
	ErrTooLarge          = newCodecError("coproto: value too large", 10)

	ErrShortBuffer = newCodecError("coproto: short buffer", 11)
)

type codecError struct {
	msg  string
	code int32
}

func newCodecError(msg string, code int32) codecError {
	return codecError{msg: msg, code: code}
}

func (e codecError) Error() string {
	return e.msg
}

func (e codecError) Is(target error) bool {
	t, ok := errors.Cause(target).(codecError)
	return ok && t.code == e.code
}

// Code returns the stable numeric code of the leaf error wrapped by err,
// 0 for nil and -1 for errors that did not originate in this package.
func Code(err error) int32 {
	if err == nil {
		return 0
	}
	var ce codecError
	if errors.As(err, &ce) {
		return ce.code
	}
	var ut *UnknownTagError
	if errors.As(err, &ut) {
		return ErrUnknownTag.code
	}
	return -1
}

// UnknownTagError is returned when a buffer starts with a byte that has no
// registered codec.
type UnknownTagError struct {
	Tag byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("coproto: unknown tag %#02x", e.Tag)
}

func (e *UnknownTagError) Unwrap() error {
	return ErrUnknownTag
}

func wrapErrTagMismatch(kind Kind, got byte) error {
	return errors.Wrapf(ErrTagMismatch, "%s: want tag %q, got %#02x", kind, kind.Tag(), got)
}

func wrapErrDelimiter(kind Kind, want byte, at int, b []byte) error {
	if at >= len(b) {
		return wrapErrShortBuffer(kind, want, at)
	}
	return errors.Wrapf(ErrDelimiterNotFound, "%s: want %#02x at offset %d, got %#02x", kind, want, at, b[at])
}

func wrapErrShortBuffer(kind Kind, want byte, at int) error {
	return &shortBufferError{
		cause: errors.Wrapf(ErrDelimiterNotFound, "%s: input ended at offset %d looking for %#02x", kind, at, want),
	}
}

// shortBufferError marks a delimiter failure caused by running out of input,
// so stream readers can wait for more bytes instead of dropping the stream.
type shortBufferError struct {
	cause error
}

func (e *shortBufferError) Error() string { return e.cause.Error() }

func (e *shortBufferError) Unwrap() error { return e.cause }

func (e *shortBufferError) Is(target error) bool {
	t, ok := target.(codecError)
	return ok && t.code == ErrShortBuffer.code
}

func wrapErrInvalidByte(kind Kind, at int, got byte, reason string) error {
	return errors.Wrapf(ErrInvalidByte, "%s: byte %#02x at offset %d: %s", kind, got, at, reason)
}

func wrapErrTypeMismatch(kind Kind, v any) error {
	return errors.Wrapf(ErrTypeMismatch, "%s: cannot encode %v", kind, v)
}

func wrapErrTooLarge(kind Kind, n int) error {
	return errors.Wrapf(ErrTooLarge, "%s: length %d exceeds %d", kind, n, maxLength)
}

func wrapErrUnsupportedType(v any) error {
	return errors.Wrapf(ErrUnsupportedType, "cannot encode %T", v)
}

func wrapErrNotImplemented(kind Kind) error {
	return errors.Wrapf(ErrNotImplemented, "%s codec", kind)
}

// inKind prefixes an error raised by a shared primitive with the codec that
// was running when it happened.
func inKind(kind Kind, err error) error {
	return errors.Wrapf(err, "%s", kind)
}
