// Package event normalizes raw GitHub event payloads into exactly one of
// the two context variants consumed by the rest of the pipeline.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/openclaw/claude-action/internal/domain"
)

// Raw is an unparsed event as delivered by the runner: the event name from
// GITHUB_EVENT_NAME, the payload file contents, and run identity.
type Raw struct {
	Name       string
	Payload    []byte
	RunID      string
	Repository domain.Repository
	Actor      string
	Inputs     domain.Inputs
}

// envelope covers every payload field the normalizer reads, across all
// supported event kinds. Unknown fields are ignored.
type envelope struct {
	Action        string                 `json:"action"`
	Issue         *domain.Issue          `json:"issue"`
	PullRequest   *domain.PullRequest    `json:"pull_request"`
	Comment       *domain.CommentPayload `json:"comment"`
	Review        *domain.ReviewPayload  `json:"review"`
	Label         *domain.Label          `json:"label"`
	Assignee      *domain.User           `json:"assignee"`
	Schedule      string                 `json:"schedule"`
	Inputs        map[string]any         `json:"inputs"`
	ClientPayload map[string]any         `json:"client_payload"`
	WorkflowRun   *struct {
		ID int64 `json:"id"`
	} `json:"workflow_run"`
}

// Parse produces exactly one context variant for the raw event. An unknown
// event name is a configuration error and aborts the run; there is no
// partial result.
func Parse(raw Raw) (domain.Context, error) {
	var env envelope
	if len(raw.Payload) > 0 {
		if err := json.Unmarshal(raw.Payload, &env); err != nil {
			return nil, fmt.Errorf("parse %s payload: %w", raw.Name, err)
		}
	}

	name := domain.EventName(raw.Name)
	// pull_request_target must be indistinguishable from pull_request to
	// all downstream logic. Folding it here means no later branch can
	// special-case fork PRs into a privilege differential.
	if name == domain.EventPullRequestTarget {
		name = domain.EventPullRequest
	}

	common := domain.Common{
		RunID:       raw.RunID,
		EventName:   name,
		EventAction: env.Action,
		Repository:  raw.Repository,
		Actor:       raw.Actor,
		Inputs:      raw.Inputs,
	}

	switch name {
	case domain.EventIssues:
		if env.Issue == nil {
			return nil, fmt.Errorf("issues event is missing the issue object")
		}
		return &domain.EntityContext{
			Common:       common,
			EntityNumber: env.Issue.Number,
			IsPR:         false,
			Payload: domain.EntityPayload{
				Issue:    env.Issue,
				Label:    env.Label,
				Assignee: env.Assignee,
			},
		}, nil

	case domain.EventIssueComment:
		if env.Issue == nil {
			return nil, fmt.Errorf("issue_comment event is missing the issue object")
		}
		return &domain.EntityContext{
			Common:       common,
			EntityNumber: env.Issue.Number,
			IsPR:         env.Issue.PullRequest != nil,
			Payload: domain.EntityPayload{
				Issue:   env.Issue,
				Comment: env.Comment,
			},
		}, nil

	case domain.EventPullRequest:
		if env.PullRequest == nil {
			return nil, fmt.Errorf("pull_request event is missing the pull_request object")
		}
		return &domain.EntityContext{
			Common:       common,
			EntityNumber: env.PullRequest.Number,
			IsPR:         true,
			Payload: domain.EntityPayload{
				PullRequest: env.PullRequest,
			},
		}, nil

	case domain.EventPullRequestReview:
		if env.PullRequest == nil {
			return nil, fmt.Errorf("pull_request_review event is missing the pull_request object")
		}
		return &domain.EntityContext{
			Common:       common,
			EntityNumber: env.PullRequest.Number,
			IsPR:         true,
			Payload: domain.EntityPayload{
				PullRequest: env.PullRequest,
				Review:      env.Review,
			},
		}, nil

	case domain.EventPullRequestReviewComment:
		if env.PullRequest == nil {
			return nil, fmt.Errorf("pull_request_review_comment event is missing the pull_request object")
		}
		return &domain.EntityContext{
			Common:       common,
			EntityNumber: env.PullRequest.Number,
			IsPR:         true,
			Payload: domain.EntityPayload{
				PullRequest: env.PullRequest,
				Comment:     env.Comment,
			},
		}, nil

	case domain.EventWorkflowDispatch:
		return &domain.AutomationContext{
			Common: common,
			Payload: domain.AutomationPayload{
				WorkflowInputs: stringifyValues(env.Inputs),
			},
		}, nil

	case domain.EventRepositoryDispatch:
		return &domain.AutomationContext{
			Common: common,
			Payload: domain.AutomationPayload{
				ClientPayload: env.ClientPayload,
			},
		}, nil

	case domain.EventSchedule:
		return &domain.AutomationContext{
			Common: common,
			Payload: domain.AutomationPayload{
				Cron: env.Schedule,
			},
		}, nil

	case domain.EventWorkflowRun:
		ctx := &domain.AutomationContext{Common: common}
		if env.WorkflowRun != nil {
			ctx.Payload.WorkflowRunID = env.WorkflowRun.ID
		}
		return ctx, nil
	}

	return nil, fmt.Errorf("unsupported event type: %s", raw.Name)
}

func stringifyValues(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}
