// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

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
	err := WrapErrNotSerializable("main.Foo")
	err = errors.Wrap(err, "failed to write object")
	s.ErrorIs(err, ErrNotSerializable)
	s.Equal(Code(ErrNotSerializable), Code(err))
	s.Equal(errUnexpected.errCode, Code(io.EOF))
	s.Equal(int32(0), Code(nil))
	s.True(IsWireError(err))
	s.False(IsWireError(io.EOF))

	sameCodeErr := newWireError("new error", ErrNotSerializable.errCode, InputError)
	s.True(sameCodeErr.Is(ErrNotSerializable))
	s.False(sameCodeErr.Is(ErrClassResolution))
}

func (s *ErrSuite) TestWrap() {
	s.ErrorIs(WrapErrNotSerializable("main.Foo", "write"), ErrNotSerializable)
	s.ErrorIs(WrapErrClassResolution("main.Missing"), ErrClassResolution)
	s.ErrorIs(WrapErrClassInstantiation("main.Iface", "interface type"), ErrClassResolution)
	s.ErrorIs(WrapErrIoFailed("flush", io.ErrClosedPipe), ErrIoFailed)
	s.ErrorIs(WrapErrIoFailedReason("broken pipe"), ErrIoFailed)
	s.ErrorIs(WrapErrIoUnexpectEOF("read int32", io.ErrUnexpectedEOF), ErrIoUnexpectEOF)
	s.ErrorIs(WrapErrIoMalformedTag("read int32", 0x44), ErrIoMalformed)
	s.ErrorIs(WrapErrIoMalformed("no enum constant", "Color"), ErrIoMalformed)
	s.ErrorIs(WrapErrSerialization("main.Foo", errors.New("boom")), ErrSerialization)
	s.ErrorIs(WrapErrSerializationReason("stack underflow"), ErrSerialization)
	s.ErrorIs(WrapErrParameterInvalid(1, 2), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidRange(0, 10, 11), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad window %d", 3), ErrParameterInvalid)
	s.ErrorIs(WrapErrOperationNotSupported("read unsupported"), ErrOperationNotSupported)

	s.Nil(WrapErrIoFailed("flush", nil))
	s.Nil(WrapErrIoUnexpectEOF("read", nil))
}

func (s *ErrSuite) TestWrapKeepsCause() {
	err := WrapErrIoFailed("write", errors.Wrap(io.ErrClosedPipe, "destination 2"))
	s.ErrorIs(err, io.ErrClosedPipe)
	s.ErrorIs(err, ErrIoFailed)
	s.True(IsWireError(err))
	s.Equal(Code(ErrIoFailed), Code(err))
	s.Contains(err.Error(), "closed pipe")
	s.NotErrorIs(WrapErrIoFailed("write", io.EOF), io.ErrClosedPipe)

	eof := WrapErrIoUnexpectEOF("read int64", io.ErrUnexpectedEOF)
	s.ErrorIs(eof, io.ErrUnexpectedEOF)
	s.ErrorIs(eof, ErrIoUnexpectEOF)
}

func (s *ErrSuite) TestMessage() {
	err := WrapErrIoMalformedTag("read int32", 0x44)
	s.Contains(err.Error(), "op=read int32")
	s.Contains(err.Error(), "tag=0x44")

	err = WrapErrParameterInvalidRange(0, 10, 11)
	s.Contains(err.Error(), "11 out of range 0 <= value <= 10")
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrNotSerializable("x")))
	s.Equal(SystemError, GetErrorType(WrapErrSerializationReason("x")))
	s.Equal(SystemError, GetErrorType(io.EOF))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestCombine() {
	errFirst := errors.New("first")
	errSecond := WrapErrIoFailedReason("second")
	errThird := WrapErrNotSerializable("third")

	s.Nil(Combine())
	s.Nil(Combine(nil, nil))

	err := Combine(errFirst, nil, errSecond, errThird)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, ErrIoFailed))
	s.True(errors.Is(err, ErrNotSerializable))
	s.False(errors.Is(err, ErrClassResolution))
	s.Contains(err.Error(), "first")
	s.Contains(err.Error(), "second")
	s.Equal(Code(ErrNotSerializable), Code(err))

	single := Combine(errSecond)
	s.Equal(Code(ErrIoFailed), Code(single))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
