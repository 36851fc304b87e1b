package types

import (
	"net/http"
)

// ErrorCode is the machine readable code of an API error body.
type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error is returned by API handlers and carries the status the request is
// answered with.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewServiceUnavailableError reports a dependency of the service, such as
// the event bus, that cannot be reached.
func NewServiceUnavailableError(err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: http.StatusServiceUnavailable,
		ErrorCode:  ServiceUnavailable,
	}
}
