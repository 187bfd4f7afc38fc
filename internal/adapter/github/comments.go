package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v58/github"

	"github.com/openclaw/claude-action/internal/adapter/httpx"
	"github.com/openclaw/claude-action/internal/domain"
)

// trackingMarker identifies the sticky tracking comment across runs. It is
// invisible when rendered and survives body rewrites because every update
// re-emits it.
const trackingMarker = "<!-- claude-action-tracking -->"

// UpsertTrackingComment creates the tracking comment for an entity. When
// sticky is set, an existing marked comment is reused and its body reset
// instead of creating a new one. Returns the comment id.
func (c *Client) UpsertTrackingComment(ctx context.Context, repo domain.Repository, number int, actor string, sticky bool) (int64, error) {
	var requester string
	if actor != "" {
		requester = c.DisplayName(ctx, actor)
	}
	body := trackingMarker + "\n" + RenderWorkingComment(requester)

	if sticky {
		existing, err := c.findTrackingComment(ctx, repo, number)
		if err != nil {
			return 0, err
		}
		if existing != 0 {
			err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
				_, resp, err := c.rest.Issues.EditComment(ctx, repo.Owner, repo.Name, existing, &gh.IssueComment{
					Body: gh.String(body),
				})
				if err != nil {
					return mapRESTError("issues.editcomment", resp, err)
				}
				return nil
			}, c.retryConf)
			if err != nil {
				return 0, fmt.Errorf("update tracking comment %d on %s#%d: %w", existing, repo.FullName, number, err)
			}
			return existing, nil
		}
	}

	var id int64
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		created, resp, err := c.rest.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{
			Body: gh.String(body),
		})
		if err != nil {
			return mapRESTError("issues.createcomment", resp, err)
		}
		id = created.GetID()
		return nil
	}, c.retryConf)
	if err != nil {
		return 0, fmt.Errorf("create tracking comment on %s#%d: %w", repo.FullName, number, err)
	}
	return id, nil
}

// findTrackingComment returns the id of the existing marked comment, or 0.
func (c *Client) findTrackingComment(ctx context.Context, repo domain.Repository, number int) (int64, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	for {
		var comments []*gh.IssueComment
		var nextPage int
		err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
			page, resp, err := c.rest.Issues.ListComments(ctx, repo.Owner, repo.Name, number, opts)
			if err != nil {
				return mapRESTError("issues.listcomments", resp, err)
			}
			comments = page
			nextPage = resp.NextPage
			return nil
		}, c.retryConf)
		if err != nil {
			return 0, fmt.Errorf("list comments on %s#%d: %w", repo.FullName, number, err)
		}

		for _, comment := range comments {
			if strings.Contains(comment.GetBody(), trackingMarker) {
				return comment.GetID(), nil
			}
		}
		if nextPage == 0 {
			return 0, nil
		}
		opts.Page = nextPage
	}
}
