// Package derrors defines coded domain errors for the registrar.
//
// Services return these so transport layers can translate outcomes into
// HTTP responses without inspecting error strings. Stores and other
// infrastructure return sentinel errors (pkg/platform/sentinel) instead;
// the service layer is the only place that maps one into the other.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the failure class of a domain error.
type Code string

const (
	// Lease lifecycle failures.
	CodeInvalidLabel      Code = "invalid_label"
	CodeInsufficientFee   Code = "insufficient_fee"
	CodeAlreadyRegistered Code = "already_registered"
	CodePaused            Code = "paused"
	CodeReentrant         Code = "reentrant"
	CodeRegistryFailure   Code = "registry_failure"
	CodeUnknownToken      Code = "unknown_token"

	// Ambient failures.
	CodeValidation   Code = "validation"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err, or anything it wraps, carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport layer serves.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidLabel, CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeInsufficientFee:
		return http.StatusPaymentRequired
	case CodeAlreadyRegistered:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeUnknownToken:
		return http.StatusNotFound
	case CodePaused, CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeReentrant:
		return http.StatusConflict
	case CodeRegistryFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
