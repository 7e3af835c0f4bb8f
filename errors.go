package bogrep

import (
	"errors"
	"fmt"
)

// Application error codes. These are surface categories, not Go type
// names: callers switch on the code, never on the concrete error type.
const (
	EINVALID   = "invalid" // configuration or usage error
	ENOTFOUND  = "not_found"
	ECONFLICT  = "conflict"
	EINTERNAL  = "internal"
	ESOURCE    = "source"  // bad/missing bookmark export
	ENETWORK   = "network" // DNS, TLS, timeout, HTTP>=400, unsupported content-type
	ERENDER    = "render"
	ECACHE     = "cache"
	EINDEX     = "index"
	ELOCKED    = "locked"
	ECANCELLED = "cancelled"
)

// Error is an application error carrying a machine-readable code, an
// operation name for context, and an optional wrapped cause.
type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf []byte
	if e.Op != "" {
		buf = append(buf, e.Op...)
		buf = append(buf, ": "...)
	}
	if e.Err != nil {
		buf = append(buf, e.Err.Error()...)
		return string(buf)
	}
	buf = append(buf, e.Code...)
	buf = append(buf, ": "...)
	buf = append(buf, e.Message...)
	return string(buf)
}

// Unwrap returns the wrapped error, if any, allowing errors.Is/As to see
// through an *Error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a convenience constructor for an *Error with a code and a
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapOp wraps err with an operation name, preserving its code.
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return &Error{Code: e.Code, Message: e.Message, Op: op, Err: err}
	}
	return &Error{Code: EINTERNAL, Op: op, Err: err}
}

// ErrorCode returns the code embedded in err, if any. Returns an empty
// string for nil and EINTERNAL for errors that are not an *Error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		return ErrorCode(e.Err)
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message embedded in err, if
// any.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return ErrorMessage(e.Err)
		}
		return ""
	}
	return err.Error()
}

// ExitCode maps an error's code to the process exit code per the error
// handling design: 0 for nil, 2 for usage/configuration/source errors,
// 130 for cancellation, and 1 for every other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch ErrorCode(err) {
	case EINVALID, ESOURCE:
		return 2
	case ECANCELLED:
		return 130
	case EINDEX, ELOCKED, EINTERNAL:
		return 1
	default:
		return 1
	}
}
