package httpx

import "fmt"

// ErrorType represents the category of error that occurred.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeForbidden
	ErrTypeRateLimit
	ErrTypeNotFound
	ErrTypeValidation
	ErrTypeServiceUnavailable
	ErrTypeTimeout
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeForbidden:
		return "forbidden"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeValidation:
		return "validation failed"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error represents an API error with additional context.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Endpoint   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Endpoint, e.Type.String(), e.Message, e.StatusCode)
}

// Is implements error equality checking for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable returns true if the error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// MapStatus converts an HTTP status code from the GitHub API into a typed error.
func MapStatus(endpoint string, statusCode int, message string) *Error {
	switch {
	case statusCode == 401:
		return &Error{Type: ErrTypeAuthentication, Message: message, StatusCode: statusCode, Retryable: false, Endpoint: endpoint}
	case statusCode == 403:
		// 403 with a rate-limit body is retryable; a plain 403 is not.
		return &Error{Type: ErrTypeForbidden, Message: message, StatusCode: statusCode, Retryable: false, Endpoint: endpoint}
	case statusCode == 404:
		return &Error{Type: ErrTypeNotFound, Message: message, StatusCode: statusCode, Retryable: false, Endpoint: endpoint}
	case statusCode == 422:
		return &Error{Type: ErrTypeValidation, Message: message, StatusCode: statusCode, Retryable: false, Endpoint: endpoint}
	case statusCode == 429:
		return NewRateLimitError(endpoint, message)
	case statusCode >= 500:
		return NewServiceUnavailableError(endpoint, statusCode, message)
	default:
		return &Error{Type: ErrTypeUnknown, Message: message, StatusCode: statusCode, Retryable: false, Endpoint: endpoint}
	}
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(endpoint, message string) *Error {
	return &Error{
		Type:       ErrTypeRateLimit,
		Message:    message,
		StatusCode: 429,
		Retryable:  true,
		Endpoint:   endpoint,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(endpoint, message string) *Error {
	return &Error{
		Type:       ErrTypeTimeout,
		Message:    message,
		StatusCode: 0,
		Retryable:  true,
		Endpoint:   endpoint,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(endpoint string, statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeServiceUnavailable,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  true,
		Endpoint:   endpoint,
	}
}
