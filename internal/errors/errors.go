package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so a wrapped or re-messaged error
// still compares equal to its sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage copies a domain error with a request-specific message
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Err:     domainErr.Err,
	}
}

// Predefined domain errors
var (
	// Offer errors
	ErrOfferNotFound = NewDomainError("OFFER_NOT_FOUND", "offer not found")
	ErrNotOfferOwner = NewDomainError("NOT_OFFER_OWNER", "you are not the owner of the offer")

	// Account errors
	ErrAccountNotFound    = NewDomainError("ACCOUNT_NOT_FOUND", "account not found")
	ErrEmailExists        = NewDomainError("EMAIL_EXISTS", "email already exists")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")

	// Authentication errors
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid or expired token")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// System errors
	ErrImageStore = NewDomainError("IMAGE_STORE_FAILURE", "image storage failure")
	ErrInternal   = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case "INVALID_INPUT":
		return http.StatusBadRequest

	// Ownership failures are reported as 401 like authentication failures.
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN", "NOT_OFFER_OWNER":
		return http.StatusUnauthorized

	case "OFFER_NOT_FOUND", "ACCOUNT_NOT_FOUND":
		return http.StatusNotFound

	case "EMAIL_EXISTS":
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
