package httpx

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected string
	}{
		{ErrTypeAuthentication, "authentication error"},
		{ErrTypeForbidden, "forbidden"},
		{ErrTypeRateLimit, "rate limit exceeded"},
		{ErrTypeNotFound, "not found"},
		{ErrTypeValidation, "validation failed"},
		{ErrTypeServiceUnavailable, "service unavailable"},
		{ErrTypeTimeout, "timeout"},
		{ErrTypeUnknown, "unknown error"},
	}

	for _, tt := range tests {
		if got := tt.errType.String(); got != tt.expected {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.errType, got, tt.expected)
		}
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{
		Type:       ErrTypeRateLimit,
		Message:    "secondary rate limit",
		StatusCode: 429,
		Retryable:  true,
		Endpoint:   "repos.get",
	}

	msg := err.Error()
	for _, want := range []string{"repos.get", "rate limit exceeded", "secondary rate limit", "429"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	rateLimitA := NewRateLimitError("a", "slow down")
	rateLimitB := NewRateLimitError("b", "try later")
	timeout := NewTimeoutError("a", "deadline exceeded")

	if !errors.Is(rateLimitA, rateLimitB) {
		t.Error("expected two rate limit errors to match via errors.Is")
	}
	if errors.Is(rateLimitA, timeout) {
		t.Error("rate limit error should not match timeout error")
	}
	if errors.Is(rateLimitA, errors.New("plain")) {
		t.Error("typed error should not match a plain error")
	}
}

func TestMapStatusMatchesConstructors(t *testing.T) {
	if !errors.Is(MapStatus("e", 429, "m"), NewRateLimitError("e", "m")) {
		t.Error("429 should map to a rate limit error")
	}
	if !errors.Is(MapStatus("e", 502, "m"), NewServiceUnavailableError("e", 502, "m")) {
		t.Error("502 should map to a service unavailable error")
	}
	if got := MapStatus("e", 502, "m").StatusCode; got != 502 {
		t.Errorf("MapStatus(502).StatusCode = %d", got)
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantType   ErrorType
		wantRetry  bool
	}{
		{"unauthorized", 401, ErrTypeAuthentication, false},
		{"forbidden", 403, ErrTypeForbidden, false},
		{"not found", 404, ErrTypeNotFound, false},
		{"unprocessable", 422, ErrTypeValidation, false},
		{"rate limited", 429, ErrTypeRateLimit, true},
		{"server error", 500, ErrTypeServiceUnavailable, true},
		{"bad gateway", 502, ErrTypeServiceUnavailable, true},
		{"unavailable", 503, ErrTypeServiceUnavailable, true},
		{"teapot", 418, ErrTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapStatus("test.endpoint", tt.statusCode, "message")
			if err.Type != tt.wantType {
				t.Errorf("MapStatus(%d).Type = %v, want %v", tt.statusCode, err.Type, tt.wantType)
			}
			if err.Retryable != tt.wantRetry {
				t.Errorf("MapStatus(%d).Retryable = %v, want %v", tt.statusCode, err.Retryable, tt.wantRetry)
			}
			if err.StatusCode != tt.statusCode {
				t.Errorf("MapStatus(%d).StatusCode = %d", tt.statusCode, err.StatusCode)
			}
		})
	}
}
