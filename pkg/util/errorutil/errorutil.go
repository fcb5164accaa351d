package errorutil

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

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusUnprocessableEntity, details)
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
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

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewUpstreamError reports a failed call to the employee backend.
func NewUpstreamError(message string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromHTTPStatus maps a backend response status to a DomainError. The
// returned error keeps the backend status for 4xx responses and reports
// 502 for everything else. The backend body is never included.
func FromHTTPStatus(status int, resource string) error {
	details := map[string]any{"upstream_status": status}
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewDomainError("VALIDATION_FAILED", fmt.Sprintf("%s rejected by backend", resource), status, details)
	case http.StatusUnauthorized:
		return NewDomainError("UNAUTHORIZED", "backend rejected credentials", status, details)
	case http.StatusForbidden:
		return NewDomainError("FORBIDDEN", "backend denied access", status, details)
	case http.StatusNotFound:
		return NewNotFound(resource, details)
	case http.StatusConflict:
		return NewConflict(fmt.Sprintf("%s conflict", resource), details)
	default:
		return &DomainError{
			Code:       "UPSTREAM_ERROR",
			Message:    fmt.Sprintf("backend returned %d for %s", status, resource),
			HTTPStatus: http.StatusBadGateway,
			Details:    details,
		}
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}
