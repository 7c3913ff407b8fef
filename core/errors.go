package core

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrorCode classifies the errors of the engine. Layout distinguishes
// invalid use of its API from failing collaborators (text oracles) and from
// structural limits (page counts, cancellation).
type ErrorCode int

// Error codes. Codes are ordered by severity, EINTERNAL being the worst.
const (
	NOERROR   ErrorCode = 0
	EMISSING  ErrorCode = 122 // resource does not exist
	EINVALID  ErrorCode = 123 // invalid input or API use
	EORACLE   ErrorCode = 124 // an external measurement oracle failed
	ELIMIT    ErrorCode = 125 // a structural limit has been exceeded
	EINTERNAL ErrorCode = 126 // broken invariant
)

var codeNames = map[ErrorCode]string{
	NOERROR:   "OK",
	EMISSING:  "not found",
	EINVALID:  "invalid",
	EORACLE:   "oracle failure",
	ELIMIT:    "limit exceeded",
	EINTERNAL: "internal error",
}

func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user message.
type AppError interface {
	error
	ErrorCode() ErrorCode
	UserMessage() string
}

// codedError decorates an error chain with a code and a message.
type codedError struct {
	cause error
	code  ErrorCode
	msg   string
}

func (e codedError) Unwrap() error {
	return e.cause
}

func (e codedError) Error() string {
	if e.msg != "" && e.msg != e.cause.Error() {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.cause)
}

func (e codedError) ErrorCode() ErrorCode {
	return e.code
}

func (e codedError) UserMessage() string {
	return e.msg
}

var _ AppError = codedError{}

// ErrorWithCode adds an error code to err's error chain.
// A nil err is replaced by an error with the code's text.
func ErrorWithCode(err error, code ErrorCode) error {
	return WrapError(err, code, "%s", code)
}

// WrapError wraps an error, adding an error code and a user message.
// If err is nil, an error denoting the code's text is wrapped.
func WrapError(err error, code ErrorCode, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(code.String())
	}
	return codedError{cause: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Error creates an error with an error code and a user message.
func Error(code ErrorCode, format string, v ...interface{}) error {
	return WrapError(nil, code, format, v...)
}

// Code returns the code of the outermost coded error in err's chain.
// Errors without a code are internal errors; nil is NOERROR.
func Code(err error) ErrorCode {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// Is is true if err carries code anywhere in its chain, e.g. an oracle
// failure wrapped into an invalid-input error. Collections of errors are
// searched element by element.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(AppError); ok && e.ErrorCode() == code {
			return true
		}
		var inner []error
		switch m := err.(type) {
		case *multierror.Error:
			inner = m.Errors
		case interface{ Unwrap() []error }:
			inner = m.Unwrap()
		}
		if inner != nil {
			for _, e := range inner {
				if Is(e, code) {
					return true
				}
			}
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}

// UserMessage returns the user message of the outermost coded error in
// err's chain, or the text of its code. If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return Code(err).String()
}
