// Package sanitize strips injected or hidden instructions from untrusted
// GitHub text before it is matched against triggers or placed in prompts.
//
// The pipeline is a fixed, documented order of pure string transforms.
// Ordering matters: tag attributes are stripped before character references
// are decoded, so an entity-encoded attribute cannot survive one stage and
// materialize in the next.
package sanitize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// RedactedTokenMarker replaces classic GitHub tokens.
	RedactedTokenMarker = "[REDACTED_GITHUB_TOKEN]"

	// RedactedPATMarker replaces fine-grained personal access tokens.
	RedactedPATMarker = "[REDACTED_GITHUB_PAT]"
)

var (
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

	// Zero-width and format-control code points, C0/C1 control bytes
	// (tab/newline/carriage return excluded), soft hyphen, and
	// bidirectional override characters.
	invisiblePattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f" +
		"\u0080-\u009f\u00ad\u200b-\u200f\u202a-\u202e" +
		"\u2060-\u2064\u2066-\u2069\ufeff]")

	imageAltPattern = regexp.MustCompile(`!\[[^\]]*\]\(`)

	linkTitlePattern = regexp.MustCompile(`(\[[^\]]*\]\(\s*[^)\s]+)\s+(?:"[^"]*"|'[^']*')\s*\)`)

	htmlTagPattern = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

	tagAttributePattern = regexp.MustCompile(`(?i)\s+(?:alt|title|aria-label|placeholder|data-[\w-]*)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)

	numericEntityPattern = regexp.MustCompile(`&#(?:[xX]([0-9a-fA-F]{1,6})|([0-9]{1,7}));`)

	// Classic tokens: fixed prefix, fixed-length alphanumeric secret.
	classicTokenPattern = regexp.MustCompile(`gh[opsur]_[A-Za-z0-9]{36}`)

	// Fine-grained tokens: longer prefix, variable-length secret.
	fineGrainedTokenPattern = regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,255}`)
)

// Sanitize applies the full pipeline. It is total over all inputs and
// idempotent on its own output: passes repeat until the text stops
// changing, so decoding one layer of encoding cannot reintroduce material
// an earlier stage would have removed. Every changing pass strictly
// shrinks the text, so the loop terminates.
func Sanitize(text string) string {
	result := text
	for {
		next := pass(result)
		if next == result {
			return result
		}
		result = next
	}
}

func pass(text string) string {
	text = StripHiddenComments(text)
	text = StripInvisibleCharacters(text)
	text = CollapseImageAltText(text)
	text = StripLinkTitles(text)
	text = StripTagAttributes(text)
	text = DecodeEntities(text)
	text = RedactTokens(text)
	return text
}

// StripHiddenComments removes HTML comment blocks. Renderers hide them but
// an assistant reading the raw markdown would not.
func StripHiddenComments(text string) string {
	return htmlCommentPattern.ReplaceAllString(text, "")
}

// StripInvisibleCharacters removes zero-width, format-control, and control
// range code points, plus soft hyphens and bidi overrides.
func StripInvisibleCharacters(text string) string {
	return invisiblePattern.ReplaceAllString(text, "")
}

// CollapseImageAltText empties markdown image alt text, which is invisible
// in rendered output but can carry instructions.
func CollapseImageAltText(text string) string {
	return imageAltPattern.ReplaceAllString(text, "![](")
}

// StripLinkTitles drops the quoted title attribute from markdown links,
// keeping the link text and destination.
func StripLinkTitles(text string) string {
	return linkTitlePattern.ReplaceAllString(text, "$1)")
}

// StripTagAttributes removes alt, title, aria-label, placeholder, and
// data-* attributes (quoted or unquoted values) from inline HTML tags.
func StripTagAttributes(text string) string {
	return htmlTagPattern.ReplaceAllStringFunc(text, func(tag string) string {
		return tagAttributePattern.ReplaceAllString(tag, "")
	})
}

// DecodeEntities decodes numeric and hex HTML character references that map
// to printable ASCII (32-126) and drops all others, so control characters
// cannot be smuggled in entity-encoded form.
func DecodeEntities(text string) string {
	return numericEntityPattern.ReplaceAllStringFunc(text, func(ref string) string {
		groups := numericEntityPattern.FindStringSubmatch(ref)
		var value int64
		var err error
		if groups[1] != "" {
			value, err = strconv.ParseInt(groups[1], 16, 32)
		} else {
			value, err = strconv.ParseInt(groups[2], 10, 32)
		}
		if err != nil || value < 32 || value > 126 {
			return ""
		}
		return fmt.Sprintf("%c", rune(value))
	})
}

// RedactTokens replaces recognizable GitHub credential patterns with
// literal markers. The longer fine-grained prefix is matched first so the
// embedded "pat_..." tail cannot be half-consumed by the classic pattern.
func RedactTokens(text string) string {
	if !strings.Contains(text, "gh") {
		return text
	}
	text = fineGrainedTokenPattern.ReplaceAllString(text, RedactedPATMarker)
	text = classicTokenPattern.ReplaceAllString(text, RedactedTokenMarker)
	return text
}
