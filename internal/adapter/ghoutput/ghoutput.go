// Package ghoutput appends workflow outputs to the GITHUB_OUTPUT file.
package ghoutput

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output keys consumed by downstream workflow steps.
const (
	KeyContainsTrigger = "contains_trigger"
	KeyMode            = "mode"
	KeyClaudeBranch    = "claude_branch"
	KeyBaseBranch      = "base_branch"
	KeyCommentID       = "claude_comment_id"
)

// WriteFile appends the given outputs to the file at path. Keys are written
// in sorted order so output is deterministic.
func WriteFile(path string, values map[string]string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if len(values) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := sanitize(values[key])
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return fmt.Errorf("write output %s: %w", key, err)
		}
	}
	return nil
}

// sanitize escapes newlines per the Actions single-line output format.
func sanitize(value string) string {
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "\r", "%0D")
	value = strings.ReplaceAll(value, "\n", "%0A")
	return value
}
