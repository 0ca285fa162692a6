package bankapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies where a failure originated.
type ErrorKind string

const (
	// KindTransport means no response was received; Status is 0.
	KindTransport ErrorKind = "transport"
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP ErrorKind = "http"
	// KindDecode means a 2xx response could not be parsed into the expected shape.
	KindDecode ErrorKind = "decode"
	// KindValidation means a client-side precondition failed before any network call.
	KindValidation ErrorKind = "validation"
	// KindCredentials means the token store could not be read or written.
	KindCredentials ErrorKind = "credentials"
)

// Error is the only error type returned by Client and every endpoint method.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Code    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnreachable reports whether err is a transport failure (server not reached).
func IsUnreachable(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindTransport
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

func validationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func decodeError(status int, message string, err error) *Error {
	return &Error{Kind: KindDecode, Status: status, Message: message, Err: err}
}

func credentialsError(message string, err error) *Error {
	return &Error{Kind: KindCredentials, Message: message, Err: err}
}
