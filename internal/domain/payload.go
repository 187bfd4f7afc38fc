package domain

// Thin webhook payload shapes. Only the fields the gating logic reads are
// modeled; the schema is owned by GitHub.

// User is the webhook representation of an account.
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Issue is the webhook representation of an issue. PullRequest is a marker
// object present only when the issue is actually a pull request.
type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	User        User      `json:"user"`
	Assignee    *User     `json:"assignee,omitempty"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// PullRequest is the webhook representation of a pull request.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	User   User   `json:"user"`
	State  string `json:"state"`
	Merged bool   `json:"merged"`
	Head   Ref    `json:"head"`
	Base   Ref    `json:"base"`
}

// Ref is a branch reference inside a pull request payload.
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// CommentPayload is the comment object on issue_comment and
// pull_request_review_comment events.
type CommentPayload struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	User      User   `json:"user"`
	CreatedAt string `json:"created_at"`
	HTMLURL   string `json:"html_url"`
}

// ReviewPayload is the review object on pull_request_review events.
type ReviewPayload struct {
	ID          int64  `json:"id"`
	Body        string `json:"body"`
	User        User   `json:"user"`
	State       string `json:"state"`
	SubmittedAt string `json:"submitted_at"`
}

// Label is an issue label on labeled events.
type Label struct {
	Name string `json:"name"`
}

// EntityPayload carries the event-specific objects for entity contexts.
// Which pointers are set depends on the event kind.
type EntityPayload struct {
	Issue       *Issue
	PullRequest *PullRequest
	Comment     *CommentPayload
	Review      *ReviewPayload
	Label       *Label
	Assignee    *User
}

// AutomationPayload carries the event-specific objects for automation
// contexts. All fields are optional.
type AutomationPayload struct {
	// WorkflowInputs are the inputs of a workflow_dispatch event.
	WorkflowInputs map[string]string

	// ClientPayload is the free-form payload of a repository_dispatch event.
	ClientPayload map[string]any

	// Cron is the schedule expression that fired, for schedule events.
	Cron string

	// WorkflowRunID is the id of the completed run, for workflow_run events.
	WorkflowRunID int64
}
