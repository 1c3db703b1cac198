package serrors

import (
	"errors"
	"fmt"
)

// Class partitions errors the way the transport boundary maps them to
// status codes.
type Class string

const (
	ClassAuthentication Class = "AUTHENTICATION"
	ClassAuthorization  Class = "AUTHORIZATION"
	ClassValidation     Class = "VALIDATION"
	ClassNotFound       Class = "NOT_FOUND"
	ClassConflict       Class = "CONFLICT"
	ClassInternal       Class = "INTERNAL"
)

// Base is a coded error. Services return Base (possibly wrapped); the
// transport layer resolves the class to a status code and keeps the
// message user-facing only for non-internal classes.
type Base struct {
	Code    string
	Message string
	Class   Class
	cause   error
}

func (e *Base) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Base) Unwrap() error { return e.cause }

func NewError(code, message string, class Class) *Base {
	return &Base{Code: code, Message: message, Class: class}
}

// Wrap attaches a cause while keeping code, message and class.
func (e *Base) Wrap(cause error) *Base {
	return &Base{Code: e.Code, Message: e.Message, Class: e.Class, cause: cause}
}

// WithMessage returns a copy carrying a more specific user-facing message.
func (e *Base) WithMessage(message string) *Base {
	return &Base{Code: e.Code, Message: message, Class: e.Class, cause: e.cause}
}

func Authentication(code, message string) *Base {
	return NewError(code, message, ClassAuthentication)
}

func Authorization(code, message string) *Base {
	return NewError(code, message, ClassAuthorization)
}

func Validation(code, message string) *Base {
	return NewError(code, message, ClassValidation)
}

func NotFound(code, message string) *Base {
	return NewError(code, message, ClassNotFound)
}

func Conflict(code, message string) *Base {
	return NewError(code, message, ClassConflict)
}

func Internal(code, message string) *Base {
	return NewError(code, message, ClassInternal)
}

// ClassOf extracts the class of err, defaulting to ClassInternal so that
// unexpected failures never leak detail past the transport boundary.
func ClassOf(err error) Class {
	var base *Base
	if errors.As(err, &base) {
		return base.Class
	}
	return ClassInternal
}

// CodeOf extracts the machine-readable code of err, if any.
func CodeOf(err error) string {
	var base *Base
	if errors.As(err, &base) {
		return base.Code
	}
	return "INTERNAL"
}

// MessageOf extracts the user-facing message of err. Uncoded errors get a
// generic message; their detail belongs in server-side logs.
func MessageOf(err error) string {
	var base *Base
	if errors.As(err, &base) {
		return base.Message
	}
	return "internal error"
}
