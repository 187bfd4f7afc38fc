package domain

// EventName identifies the GitHub event that started the run.
type EventName string

const (
	EventIssues                   EventName = "issues"
	EventIssueComment             EventName = "issue_comment"
	EventPullRequest              EventName = "pull_request"
	EventPullRequestReview        EventName = "pull_request_review"
	EventPullRequestReviewComment EventName = "pull_request_review_comment"
	EventWorkflowDispatch         EventName = "workflow_dispatch"
	EventRepositoryDispatch       EventName = "repository_dispatch"
	EventSchedule                 EventName = "schedule"
	EventWorkflowRun              EventName = "workflow_run"

	// EventPullRequestTarget is the fork-safe alias GitHub delivers for PRs
	// opened against a base from a fork. The normalizer folds it into
	// EventPullRequest; downstream logic never observes it.
	EventPullRequestTarget EventName = "pull_request_target"
)

// IsEntityEvent reports whether the event is tied to an issue or PR.
func IsEntityEvent(name EventName) bool {
	switch name {
	case EventIssues, EventIssueComment, EventPullRequest,
		EventPullRequestReview, EventPullRequestReviewComment:
		return true
	}
	return false
}

// IsAutomationEvent reports whether the event is a scheduled or dispatched
// run with no associated entity.
func IsAutomationEvent(name EventName) bool {
	switch name {
	case EventWorkflowDispatch, EventRepositoryDispatch, EventSchedule, EventWorkflowRun:
		return true
	}
	return false
}

// IsCommentEvent reports whether the event carries a comment or review body.
func IsCommentEvent(name EventName) bool {
	switch name {
	case EventIssueComment, EventPullRequestReview, EventPullRequestReviewComment:
		return true
	}
	return false
}

// PR lifecycle actions on which explicit prompts (and track_progress) are honored.
const (
	ActionOpened         = "opened"
	ActionSynchronize    = "synchronize"
	ActionReadyForReview = "ready_for_review"
	ActionReopened       = "reopened"

	ActionAssigned = "assigned"
	ActionLabeled  = "labeled"
)

// IsSupportedPullRequestAction reports whether a pull_request action is one
// the assistant reacts to.
func IsSupportedPullRequestAction(action string) bool {
	switch action {
	case ActionOpened, ActionSynchronize, ActionReadyForReview, ActionReopened:
		return true
	}
	return false
}
