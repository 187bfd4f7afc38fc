package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openclaw/claude-action/internal/adapter/httpx"
	"github.com/openclaw/claude-action/internal/domain"
)

// Conversation history comes from GraphQL: the REST API exposes neither
// lastEditedAt nor isMinimized, and the history filter needs both.

const issueCommentsQuery = `query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    issueOrPullRequest(number: $number) {
      ... on Issue {
        comments(first: 100, after: $after) {
          nodes {
            id
            body
            createdAt
            updatedAt
            lastEditedAt
            isMinimized
            author { login }
          }
          pageInfo { hasNextPage endCursor }
        }
      }
      ... on PullRequest {
        comments(first: 100, after: $after) {
          nodes {
            id
            body
            createdAt
            updatedAt
            lastEditedAt
            isMinimized
            author { login }
          }
          pageInfo { hasNextPage endCursor }
        }
      }
    }
  }
}`

const reviewsQuery = `query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviews(first: 100, after: $after) {
        nodes {
          id
          body
          state
          submittedAt
          updatedAt
          lastEditedAt
          author { login }
          comments(first: 100) {
            nodes {
              id
              body
              createdAt
              updatedAt
              lastEditedAt
              isMinimized
              author { login }
            }
          }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}`

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type actorNode struct {
	Login string `json:"login"`
}

type commentNode struct {
	ID           string    `json:"id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastEditedAt time.Time `json:"lastEditedAt"`
	IsMinimized  bool      `json:"isMinimized"`
	Author       actorNode `json:"author"`
}

type commentConnection struct {
	Nodes    []commentNode `json:"nodes"`
	PageInfo pageInfo      `json:"pageInfo"`
}

type issueCommentsResponse struct {
	Data struct {
		Repository struct {
			IssueOrPullRequest struct {
				Comments commentConnection `json:"comments"`
			} `json:"issueOrPullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type reviewNode struct {
	ID           string            `json:"id"`
	Body         string            `json:"body"`
	State        string            `json:"state"`
	SubmittedAt  time.Time         `json:"submittedAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	LastEditedAt time.Time         `json:"lastEditedAt"`
	Author       actorNode         `json:"author"`
	Comments     commentConnection `json:"comments"`
}

type reviewsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				Reviews struct {
					Nodes    []reviewNode `json:"nodes"`
					PageInfo pageInfo     `json:"pageInfo"`
				} `json:"reviews"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// FetchComments returns all conversation comments on an issue or PR, in
// creation order, including minimized ones. Minimized comments are dropped
// later so the filter layer owns that decision.
func (c *Client) FetchComments(ctx context.Context, repo domain.Repository, number int) ([]domain.Comment, error) {
	var out []domain.Comment
	after := ""
	for {
		var resp issueCommentsResponse
		if err := c.runGraphQL(ctx, issueCommentsQuery, queryVars(repo, number, after), &resp); err != nil {
			return nil, fmt.Errorf("fetch comments for %s#%d: %w", repo.FullName, number, err)
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("fetch comments for %s#%d: %s", repo.FullName, number, resp.Errors[0].Message)
		}

		conn := resp.Data.Repository.IssueOrPullRequest.Comments
		for _, node := range conn.Nodes {
			out = append(out, toComment(node))
		}
		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			return out, nil
		}
		after = conn.PageInfo.EndCursor
	}
}

// FetchReviews returns all reviews on a PR with their nested comments.
func (c *Client) FetchReviews(ctx context.Context, repo domain.Repository, number int) ([]domain.Review, error) {
	var out []domain.Review
	after := ""
	for {
		var resp reviewsResponse
		if err := c.runGraphQL(ctx, reviewsQuery, queryVars(repo, number, after), &resp); err != nil {
			return nil, fmt.Errorf("fetch reviews for %s#%d: %w", repo.FullName, number, err)
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("fetch reviews for %s#%d: %s", repo.FullName, number, resp.Errors[0].Message)
		}

		reviews := resp.Data.Repository.PullRequest.Reviews
		for _, node := range reviews.Nodes {
			review := domain.Review{
				ID:           node.ID,
				Author:       node.Author.Login,
				Body:         node.Body,
				State:        node.State,
				SubmittedAt:  node.SubmittedAt,
				UpdatedAt:    node.UpdatedAt,
				LastEditedAt: node.LastEditedAt,
			}
			for _, nested := range node.Comments.Nodes {
				review.Comments = append(review.Comments, toComment(nested))
			}
			out = append(out, review)
		}
		if !reviews.PageInfo.HasNextPage || reviews.PageInfo.EndCursor == "" {
			return out, nil
		}
		after = reviews.PageInfo.EndCursor
	}
}

func toComment(node commentNode) domain.Comment {
	return domain.Comment{
		ID:           node.ID,
		Author:       node.Author.Login,
		Body:         node.Body,
		CreatedAt:    node.CreatedAt,
		UpdatedAt:    node.UpdatedAt,
		LastEditedAt: node.LastEditedAt,
		Minimized:    node.IsMinimized,
	}
}

func queryVars(repo domain.Repository, number int, after string) map[string]any {
	vars := map[string]any{
		"owner":  repo.Owner,
		"name":   repo.Name,
		"number": number,
	}
	if after != "" {
		vars["after"] = after
	}
	return vars
}

func (c *Client) runGraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": vars,
	})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	return httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build graphql request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return httpx.NewTimeoutError("graphql", httpx.RedactURLSecrets(err.Error()))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return httpx.NewTimeoutError("graphql", err.Error())
		}
		if resp.StatusCode != http.StatusOK {
			return httpx.MapStatus("graphql", resp.StatusCode, httpx.TruncateForLogging(string(body)))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode graphql response: %w", err)
		}
		return nil
	}, c.retryConf)
}
