package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

const CodeValidationFailed = "VALIDATION_FAILED"

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// IsValidation reports whether err is a local input validation failure.
func IsValidation(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == CodeValidationFailed
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic and upstream errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return &DomainError{
			Code:       "UPSTREAM_UNAVAILABLE",
			Message:    "ticket service unreachable",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return &DomainError{
			Code:       "UPSTREAM_" + upstreamCode(httpErr.Status),
			Message:    httpErr.Message(),
			HTTPStatus: upstreamStatus(httpErr.Status),
			Details:    map[string]any{"upstream_status": httpErr.Status},
			Err:        err,
		}
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return &DomainError{
			Code:       "UPSTREAM_BAD_RESPONSE",
			Message:    "unexpected response from ticket service",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}

	de, _ := NewInternalError(err).(*DomainError)
	return de
}

func MapError(err error) error {
	return ToDomainError(err)
}

// UserMessage renders err as a short notice suitable for an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Message
}

func upstreamCode(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case status == http.StatusForbidden:
		return "FORBIDDEN"
	case status == http.StatusNotFound:
		return "NOT_FOUND"
	case status == http.StatusConflict:
		return "CONFLICT"
	case status >= 400 && status < 500:
		return "REJECTED"
	default:
		return "FAILED"
	}
}

// upstreamStatus keeps client errors as-is and reports server failures as a bad gateway.
func upstreamStatus(status int) int {
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
