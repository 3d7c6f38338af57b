package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Emitter errors
	ErrUsage          ErrorCode = "USAGE"
	ErrFileResolution ErrorCode = "FILE_RESOLUTION"

	// Decoder errors
	ErrHeaderParse   ErrorCode = "HEADER_PARSE"
	ErrPayloadDecode ErrorCode = "PAYLOAD_DECODE"
	ErrRender        ErrorCode = "RENDER"

	// Session errors
	ErrCapability ErrorCode = "CAPABILITY"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// TermimeError represents a structured error with code and details
type TermimeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TermimeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TermimeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TermimeError) Is(target error) bool {
	var targetErr *TermimeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TermimeError with the given code and message
func New(code ErrorCode, message string) *TermimeError {
	return &TermimeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TermimeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TermimeError {
	return &TermimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TermimeError
func Wrap(err error, code ErrorCode, message string) *TermimeError {
	if err == nil {
		return nil
	}
	return &TermimeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TermimeError {
	if err == nil {
		return nil
	}
	return &TermimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TermimeError) WithDetail(key string, value interface{}) *TermimeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var termErr *TermimeError
	if errors.As(err, &termErr) {
		return termErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TermimeError
func GetErrorCode(err error) ErrorCode {
	var termErr *TermimeError
	if errors.As(err, &termErr) {
		return termErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TermimeError
func GetErrorDetails(err error) map[string]interface{} {
	var termErr *TermimeError
	if errors.As(err, &termErr) {
		return termErr.Details
	}
	return nil
}
