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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUsage        ErrorCode = "USAGE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Product errors
	ErrProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
	ErrUnderSpecified  ErrorCode = "PRODUCT_UNDER_SPECIFIED"
	ErrTagNotFound     ErrorCode = "TAG_NOT_FOUND"

	// Flavor errors
	ErrFlavorUnknown ErrorCode = "FLAVOR_UNKNOWN"

	// Stack database errors
	ErrStackNotFound  ErrorCode = "STACK_NOT_FOUND"
	ErrStackOutOfSync ErrorCode = "STACK_OUT_OF_SYNC"
	ErrStackLock      ErrorCode = "STACK_LOCK"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// UpstackError represents a structured error with code and details
type UpstackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *UpstackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *UpstackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *UpstackError) Is(target error) bool {
	var targetErr *UpstackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new UpstackError with the given code and message
func New(code ErrorCode, message string) *UpstackError {
	return &UpstackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new UpstackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *UpstackError {
	return &UpstackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an UpstackError
func Wrap(err error, code ErrorCode, message string) *UpstackError {
	if err == nil {
		return nil
	}
	return &UpstackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *UpstackError {
	if err == nil {
		return nil
	}
	return &UpstackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *UpstackError) WithDetail(key string, value interface{}) *UpstackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var upstackErr *UpstackError
	if errors.As(err, &upstackErr) {
		return upstackErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an UpstackError
func GetErrorCode(err error) ErrorCode {
	var upstackErr *UpstackError
	if errors.As(err, &upstackErr) {
		return upstackErr.Code
	}
	return ErrUnknown
}
