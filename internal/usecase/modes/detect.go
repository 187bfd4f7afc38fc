package modes

import (
	"fmt"
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/trigger"
)

// trackProgressEvents are the only events on which track_progress is legal.
var trackProgressEvents = map[domain.EventName]bool{
	domain.EventPullRequest:              true,
	domain.EventIssues:                   true,
	domain.EventIssueComment:             true,
	domain.EventPullRequestReviewComment: true,
	domain.EventPullRequestReview:        true,
}

// Detect maps a normalized context to exactly one mode. It is total over
// all reachable contexts except the track_progress validation failures,
// which are configuration errors raised before any mode is chosen.
//
// The default is intentionally inert: agent mode's own ShouldTrigger
// returns false when no prompt exists, so an unmatched context becomes a
// no-op rather than an error. Detect only selects a handler; it does not
// guarantee the handler fires.
func Detect(gctx domain.Context) (Name, error) {
	common := gctx.CommonFields()

	if common.Inputs.TrackProgress {
		if err := validateTrackProgress(common.EventName, common.EventAction); err != nil {
			return "", err
		}
	}

	hasPrompt := strings.TrimSpace(common.Inputs.Prompt) != ""

	entity, isEntity := gctx.(*domain.EntityContext)
	if !isEntity {
		return NameAgent, nil
	}

	// track_progress forces tracking-comment behavior regardless of any
	// prompt; the prompt becomes custom instructions inside tag mode.
	if common.Inputs.TrackProgress && trackProgressEvents[common.EventName] {
		return NameTag, nil
	}

	switch common.EventName {
	case domain.EventIssueComment, domain.EventPullRequestReviewComment, domain.EventPullRequestReview:
		if hasPrompt {
			return NameAgent, nil
		}
		if trigger.EntityConditionMet(entity) {
			return NameTag, nil
		}

	case domain.EventIssues:
		if hasPrompt {
			return NameAgent, nil
		}
		if trigger.EntityConditionMet(entity) {
			return NameTag, nil
		}

	case domain.EventPullRequest:
		if domain.IsSupportedPullRequestAction(common.EventAction) && hasPrompt {
			return NameAgent, nil
		}
	}

	return NameAgent, nil
}

func validateTrackProgress(name domain.EventName, action string) error {
	if !trackProgressEvents[name] {
		return fmt.Errorf(
			"track_progress is only supported for pull_request, issues, and comment events (got: %s)",
			name,
		)
	}
	if name == domain.EventPullRequest && !domain.IsSupportedPullRequestAction(action) {
		return fmt.Errorf(
			"track_progress for pull_request events is only supported for actions opened, synchronize, ready_for_review, reopened (got: %s)",
			action,
		)
	}
	return nil
}
