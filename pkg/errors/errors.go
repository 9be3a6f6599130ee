package errors

import (
	stderrors "errors"
	"net/http"
)

// Code classifies portal errors so transport and domain layers agree on
// semantics without string matching.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeAlreadyExists      Code = "already_exists"
	CodeStorageUnavailable Code = "storage_unavailable"
	CodeInternal           Code = "internal"
)

// PortalError carries a machine-readable code alongside the human message.
// Handlers translate the code to an HTTP status in exactly one place.
type PortalError struct {
	Code    Code
	Message string
}

func (e PortalError) Error() string {
	return e.Message
}

// New builds a coded error.
func New(code Code, message string) error {
	return PortalError{Code: code, Message: message}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var pe PortalError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so nothing leaks raw failures to clients.
func CodeOf(err error) Code {
	var pe PortalError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps error codes to HTTP statuses.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
