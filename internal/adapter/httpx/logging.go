package httpx

import (
	"fmt"
	"regexp"
)

const (
	// MaxLoggedResponseLength is the maximum length of response text to include in logs.
	// Responses longer than this are truncated to keep user content out of log aggregators.
	MaxLoggedResponseLength = 200
)

// TruncateForLogging safely truncates a response string for logging purposes.
// Returns the first MaxLoggedResponseLength characters plus a truncation
// indicator if truncated.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

var urlSecretParams = []string{
	"token",
	"access_token",
	"client_secret",
	"key",
	"api_key",
}

// RedactURLSecrets redacts tokens and other secrets from URLs in error messages.
// This prevents credentials from being exposed when URLs with query parameters
// appear in error messages or logs.
//
// Example:
//
//	input:  "https://api.github.com/repos/o/r?access_token=secret123&page=2"
//	output: "https://api.github.com/repos/o/r?access_token=[REDACTED]&page=2"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, param := range urlSecretParams {
		re := regexp.MustCompile(param + `=([^&"\s]+)`)
		result = re.ReplaceAllString(result, param+"=[REDACTED]")
	}

	return result
}
