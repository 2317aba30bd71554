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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code returns the error code of the given error,
// errUnexpected's code for errors that do not come from this package.
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case wireError:
		return specificErr.code()
	case multiErrors:
		return Code(specificErr.errs[len(specificErr.errs)-1])
	default:
		return errUnexpected.code()
	}
}

func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(wireError); ok {
		return merr.errType
	}

	return SystemError
}

// Type classification related
func WrapErrNotSerializable(typeName string, msg ...string) error {
	err := wrapFields(ErrNotSerializable, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrClassResolution(name string, msg ...string) error {
	err := wrapFields(ErrClassResolution, value("class", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// WrapErrClassInstantiation reports a type that was found but cannot be
// constructed without arguments.
func WrapErrClassInstantiation(name string, reason string) error {
	return wrapFieldsWithDesc(ErrClassResolution, reason, value("class", name))
}

// IO related
func WrapErrIoFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	return markCauses(wrapFieldsWithDesc(ErrIoFailed, err.Error(), value("op", op)), err)
}

func WrapErrIoFailedReason(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrIoFailed, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrIoUnexpectEOF(op string, err error) error {
	if err == nil {
		return nil
	}
	return markCauses(wrapFieldsWithDesc(ErrIoUnexpectEOF, err.Error(), value("op", op)), err)
}

// markCauses 让 errors.Is 仍能匹配 cause 链上的每个错误，例如 io.ErrClosedPipe。
func markCauses(wrapped error, cause error) error {
	for c := cause; c != nil; c = errors.UnwrapOnce(c) {
		wrapped = errors.Mark(wrapped, c)
	}
	return wrapped
}

// WrapErrIoMalformedTag reports a tag byte that is not valid for the value
// being read.
func WrapErrIoMalformedTag(op string, tag byte) error {
	return wrapFields(ErrIoMalformed, value("op", op), value("tag", fmt.Sprintf("0x%02x", tag)))
}

func WrapErrIoMalformed(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrIoMalformed, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Serialization related
func WrapErrSerialization(typeName string, cause error) error {
	reason := "cannot initialize serialization info"
	if cause != nil {
		reason = reason + ": " + cause.Error()
	}
	return wrapFieldsWithDesc(ErrSerialization, reason, value("type", typeName))
}

func WrapErrSerializationReason(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrSerialization, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Parameter related
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidRange[T any](lower, upper, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		bound("value", actual, lower, upper),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func WrapErrOperationNotSupported(op string, msg ...string) error {
	err := wrapFields(ErrOperationNotSupported, value("op", op))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err wireError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err wireError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}

// IsWireError reports whether err comes from this package.
func IsWireError(err error) bool {
	switch errors.Cause(err).(type) {
	case wireError, multiErrors:
		return true
	default:
		return false
	}
}
