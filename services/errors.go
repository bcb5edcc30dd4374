package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a ServiceError for the HTTP layer.
type ErrorKind string

const (
	KindNotFound       ErrorKind = "NotFound"
	KindInvalidRequest ErrorKind = "InvalidRequest"
	KindConflict       ErrorKind = "Conflict"
	KindUnauthorized   ErrorKind = "Unauthorized"
	KindInternal       ErrorKind = "InternalFailure"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func InvalidRequest(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidRequest, StatusCode: http.StatusBadRequest, Message: message}
}

func Conflict(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message, Err: err}
}

func Unauthorized(message string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

func Internal(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}
