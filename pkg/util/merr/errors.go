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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Type classification related
	ErrNotSerializable = newWireError("type not serializable", 100, InputError)
	ErrClassResolution = newWireError("class resolution failed", 200, InputError)

	// IO related
	ErrIoFailed      = newWireError("IO failed", 300, SystemError)
	ErrIoUnexpectEOF = newWireError("unexpected EOF", 301, SystemError)
	// ErrIoMalformed is returned when the bytes on the wire do not match
	// any encoding the reader expects at that position.
	ErrIoMalformed = newWireError("malformed wire content", 302, InputError)

	// Internal invariant violated while building type information.
	// Never retried: the shape of a type cannot change within a process.
	ErrSerialization = newWireError("serialization error", 400, SystemError)

	// Parameter related
	ErrParameterInvalid = newWireError("invalid parameter", 1100, InputError)

	// General
	ErrOperationNotSupported = newWireError("unsupported operation", 3000, SystemError)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to wireError
	errUnexpected = newWireError("unexpected error", (1<<16)-1, SystemError)
)

type wireError struct {
	msg     string
	detail  string
	errCode int32
	errType ErrorType
}

func newWireError(msg string, code int32, etype ErrorType) wireError {
	return wireError{
		msg:     msg,
		detail:  msg,
		errCode: code,
		errType: etype,
	}
}

func (e wireError) code() int32 {
	return e.errCode
}

func (e wireError) Error() string {
	return e.msg
}

func (e wireError) Detail() string {
	return e.detail
}

func (e wireError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(wireError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

// Combine merges the non-nil errors into one; nil when none are left.
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
