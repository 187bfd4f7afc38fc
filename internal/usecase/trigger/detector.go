// Package trigger decides whether the configured trigger condition is
// satisfied for a normalized event context.
package trigger

import (
	"regexp"
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/sanitize"
)

// ContainsPhrase reports whether text contains phrase as a case-insensitive
// token-boundary match. Bodies are sanitized before matching so hidden
// markup cannot forge or mask a mention.
func ContainsPhrase(text, phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" || text == "" {
		return false
	}
	pattern := regexp.MustCompile(`(?i)(^|[^a-zA-Z0-9_])` + regexp.QuoteMeta(phrase) + `([^a-zA-Z0-9_]|$)`)
	return pattern.MatchString(sanitize.Sanitize(text))
}

// EntityConditionMet reports whether the mention / label / assignee
// condition holds for an entity context, ignoring any explicit prompt.
// Any one satisfied condition is sufficient.
func EntityConditionMet(c *domain.EntityContext) bool {
	inputs := c.Inputs

	switch c.EventName {
	case domain.EventIssues:
		if c.EventAction == domain.ActionAssigned && assigneeMatches(c.Payload.Assignee, inputs.AssigneeTrigger) {
			return true
		}
		if c.EventAction == domain.ActionLabeled && labelMatches(c.Payload.Label, inputs.LabelTrigger) {
			return true
		}
		if issue := c.Payload.Issue; issue != nil {
			return ContainsPhrase(issue.Title, inputs.TriggerPhrase) ||
				ContainsPhrase(issue.Body, inputs.TriggerPhrase)
		}
		return false

	case domain.EventIssueComment, domain.EventPullRequestReviewComment:
		if comment := c.Payload.Comment; comment != nil {
			return ContainsPhrase(comment.Body, inputs.TriggerPhrase)
		}
		return false

	case domain.EventPullRequestReview:
		if review := c.Payload.Review; review != nil {
			return ContainsPhrase(review.Body, inputs.TriggerPhrase)
		}
		return false

	case domain.EventPullRequest:
		// Bare PR lifecycle events have no in-band mention channel; only an
		// explicit prompt activates them. PR-body mentions intentionally do
		// not trigger, unlike issue bodies.
		return false
	}

	return false
}

// ShouldTrigger reports whether the run should do anything at all.
// Automation contexts trigger only on an explicit prompt; a schedule firing
// or a dispatch happening is not in itself an opt-in. Entity contexts
// trigger on an explicit prompt or on any satisfied entity condition.
func ShouldTrigger(ctx domain.Context) bool {
	prompt := strings.TrimSpace(ctx.CommonFields().Inputs.Prompt)

	switch c := ctx.(type) {
	case *domain.AutomationContext:
		return prompt != ""
	case *domain.EntityContext:
		if prompt != "" {
			return true
		}
		return EntityConditionMet(c)
	}
	return false
}

func assigneeMatches(assignee *domain.User, configured string) bool {
	if assignee == nil {
		return false
	}
	configured = strings.TrimPrefix(strings.TrimSpace(configured), "@")
	return configured != "" && strings.EqualFold(assignee.Login, configured)
}

func labelMatches(label *domain.Label, configured string) bool {
	if label == nil {
		return false
	}
	configured = strings.TrimSpace(configured)
	return configured != "" && label.Name == configured
}
