package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode checks whether err is an AppError carrying the given code
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Predefined error codes
const (
	CodeInsufficientSamples      = "INSUFFICIENT_SAMPLES"
	CodeDegenerateExpectation    = "DEGENERATE_EXPECTATION"
	CodeInvalidDegreesOfFreedom  = "INVALID_DEGREES_OF_FREEDOM"
	CodeEnumerationCapExceeded   = "ENUMERATION_CAP_EXCEEDED"
	CodeValidationError          = "VALIDATION_ERROR"
	CodeConfigInvalid            = "CONFIG_INVALID"
	CodeDatabaseError            = "DATABASE_ERROR"
	CodeNotFound                 = "NOT_FOUND"
	CodeExternalService          = "EXTERNAL_SERVICE_ERROR"
	CodeInternalError            = "INTERNAL_ERROR"
)

// Common error constructors

// InsufficientSamples marks a history too short for a given test.
func InsufficientSamples(message string) *AppError {
	return New(CodeInsufficientSamples, message)
}

// DegenerateExpectation marks a chi-square bin with zero expected count
// after merging; callers must exclude or merge such bins beforehand.
func DegenerateExpectation(message string) *AppError {
	return New(CodeDegenerateExpectation, message)
}

func InvalidDegreesOfFreedom(message string) *AppError {
	return New(CodeInvalidDegreesOfFreedom, message)
}

// EnumerationCapExceeded signals that exact enumeration would exceed the
// configured cap. Estimator selection treats it as a switch to Monte Carlo,
// never as a fatal failure.
func EnumerationCapExceeded(message string) *AppError {
	return New(CodeEnumerationCapExceeded, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
