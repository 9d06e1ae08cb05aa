package coproto

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	s.Equal(int32(0), Code(nil))
	s.Equal(int32(-1), Code(io.EOF))
	s.Equal(int32(1), Code(ErrTagMismatch))
	s.Equal(int32(10), Code(ErrTooLarge))

	err := wrapErrTagMismatch(KindInteger, 0x00)
	s.ErrorIs(err, ErrTagMismatch)
	s.Equal(Code(ErrTagMismatch), Code(errors.Wrap(err, "decode request")))

	sameCode := newCodecError("other message", ErrOverflow.code)
	s.True(sameCode.Is(ErrOverflow))
	s.False(sameCode.Is(ErrTooLarge))
}

func (s *ErrSuite) TestWrap() {
	s.ErrorIs(wrapErrTagMismatch(KindNull, 'x'), ErrTagMismatch)
	s.ErrorIs(wrapErrDelimiter(KindNull, EndRecord, 1, []byte{TagNull, 'x'}), ErrDelimiterNotFound)
	s.ErrorIs(wrapErrInvalidByte(KindBoolean, 2, 7, "bit"), ErrInvalidByte)
	s.ErrorIs(wrapErrTypeMismatch(KindDouble, 1.0), ErrTypeMismatch)
	s.ErrorIs(wrapErrTooLarge(KindString, 300), ErrTooLarge)
	s.ErrorIs(wrapErrUnsupportedType(struct{}{}), ErrUnsupportedType)
	s.ErrorIs(wrapErrNotImplemented(KindTable), ErrNotImplemented)

	s.NotErrorIs(wrapErrTagMismatch(KindNull, 'x'), ErrDelimiterNotFound)
}

func (s *ErrSuite) TestShortBuffer() {
	short := wrapErrDelimiter(KindNull, EndRecord, 5, []byte{TagNull})
	s.ErrorIs(short, ErrShortBuffer)
	s.ErrorIs(short, ErrDelimiterNotFound)
	s.Equal(Code(ErrDelimiterNotFound), Code(short))

	wrapped := inKind(KindArray, short)
	s.ErrorIs(wrapped, ErrShortBuffer)
	s.Contains(wrapped.Error(), "Array")
	s.Contains(wrapped.Error(), "Null")

	notShort := wrapErrDelimiter(KindNull, EndRecord, 0, []byte{TagNull})
	s.NotErrorIs(notShort, ErrShortBuffer)
}

func (s *ErrSuite) TestUnknownTag() {
	_, err := Decode([]byte{'?'})
	var ut *UnknownTagError
	s.Require().ErrorAs(err, &ut)
	s.Equal(byte('?'), ut.Tag)
	s.ErrorIs(err, ErrUnknownTag)
	s.Equal(Code(ErrUnknownTag), Code(err))
	s.Contains(err.Error(), "0x3f")
}

func (s *ErrSuite) TestDecodeErrorsCarryKind() {
	_, err := DecodeInteger([]byte{TagInteger, SignPlus, StartRecord, 1})
	s.Require().Error(err)
	s.Contains(err.Error(), "Integer")
	s.ErrorIs(err, ErrShortBuffer)
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
