package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"github.com/openclaw/claude-action/internal/adapter/httpx"
	"github.com/openclaw/claude-action/internal/domain"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultTimeout    = 30 * time.Second
)

// Client wraps the GitHub REST and GraphQL APIs behind the interfaces the
// pipeline consumes.
type Client struct {
	rest       *gh.Client
	httpClient *http.Client
	graphqlURL string
	token      string
	retryConf  httpx.RetryConfig
}

// Option customizes client construction.
type Option func(*Client)

// WithBaseURLs points the client at alternate REST and GraphQL endpoints.
// Used for GitHub Enterprise and for tests.
func WithBaseURLs(restURL, graphqlURL string) Option {
	return func(c *Client) {
		if restURL != "" {
			if !strings.HasSuffix(restURL, "/") {
				restURL += "/"
			}
			if parsed, err := url.Parse(restURL); err == nil {
				c.rest.BaseURL = parsed
			}
		}
		if graphqlURL != "" {
			c.graphqlURL = graphqlURL
		}
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(conf httpx.RetryConfig) Option {
	return func(c *Client) {
		c.retryConf = conf
	}
}

// WithTimeout overrides the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a GitHub API client authenticated with the given token.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = defaultTimeout

	c := &Client{
		rest:       gh.NewClient(httpClient),
		httpClient: httpClient,
		graphqlURL: defaultGraphQLURL,
		token:      token,
		retryConf:  httpx.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAccountType returns the account type ("User", "Bot", "Organization")
// for a login.
func (c *Client) UserAccountType(ctx context.Context, login string) (string, error) {
	var accountType string
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		user, resp, err := c.rest.Users.Get(ctx, login)
		if err != nil {
			return mapRESTError("users.get", resp, err)
		}
		accountType = user.GetType()
		return nil
	}, c.retryConf)
	if err != nil {
		return "", fmt.Errorf("fetch account type for %s: %w", login, err)
	}
	return accountType, nil
}

// DisplayName returns the account display name for a login, or the login
// itself when no display name is set or the lookup fails. Display names are
// cosmetic, so lookup failures are not fatal.
func (c *Client) DisplayName(ctx context.Context, login string) string {
	user, _, err := c.rest.Users.Get(ctx, login)
	if err != nil {
		return login
	}
	if name := user.GetName(); name != "" {
		return name
	}
	return login
}

// CollaboratorPermission returns the permission level ("admin", "write",
// "read", "none") the login has on the repository.
func (c *Client) CollaboratorPermission(ctx context.Context, repo domain.Repository, login string) (string, error) {
	var permission string
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		level, resp, err := c.rest.Repositories.GetPermissionLevel(ctx, repo.Owner, repo.Name, login)
		if err != nil {
			return mapRESTError("repos.permission", resp, err)
		}
		permission = level.GetPermission()
		return nil
	}, c.retryConf)
	if err != nil {
		return "", fmt.Errorf("fetch permission for %s on %s: %w", login, repo.FullName, err)
	}
	return permission, nil
}

// DefaultBranch returns the repository default branch name.
func (c *Client) DefaultBranch(ctx context.Context, repo domain.Repository) (string, error) {
	var branch string
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		repository, resp, err := c.rest.Repositories.Get(ctx, repo.Owner, repo.Name)
		if err != nil {
			return mapRESTError("repos.get", resp, err)
		}
		branch = repository.GetDefaultBranch()
		return nil
	}, c.retryConf)
	if err != nil {
		return "", fmt.Errorf("fetch default branch of %s: %w", repo.FullName, err)
	}
	return branch, nil
}

// PullRequestHead returns the head branch and open state for a PR.
func (c *Client) PullRequestHead(ctx context.Context, repo domain.Repository, number int) (string, bool, error) {
	var branch string
	var open bool
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		pr, resp, err := c.rest.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
		if err != nil {
			return mapRESTError("pulls.get", resp, err)
		}
		branch = pr.GetHead().GetRef()
		open = pr.GetState() == "open"
		return nil
	}, c.retryConf)
	if err != nil {
		return "", false, fmt.Errorf("fetch pull request %s#%d: %w", repo.FullName, number, err)
	}
	return branch, open, nil
}

// CreateBranch creates a new branch pointing at the head of from.
func (c *Client) CreateBranch(ctx context.Context, repo domain.Repository, name, from string) error {
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		baseRef, resp, err := c.rest.Git.GetRef(ctx, repo.Owner, repo.Name, "refs/heads/"+from)
		if err != nil {
			return mapRESTError("git.getref", resp, err)
		}

		newRef := &gh.Reference{
			Ref:    gh.String("refs/heads/" + name),
			Object: &gh.GitObject{SHA: baseRef.Object.SHA},
		}
		_, resp, err = c.rest.Git.CreateRef(ctx, repo.Owner, repo.Name, newRef)
		if err != nil {
			return mapRESTError("git.createref", resp, err)
		}
		return nil
	}, c.retryConf)
	if err != nil {
		return fmt.Errorf("create branch %s from %s in %s: %w", name, from, repo.FullName, err)
	}
	return nil
}

// mapRESTError converts a go-github error into a typed httpx error so the
// retry loop can distinguish transient failures.
func mapRESTError(endpoint string, resp *gh.Response, err error) error {
	if resp != nil {
		return httpx.MapStatus(endpoint, resp.StatusCode, httpx.RedactURLSecrets(err.Error()))
	}
	// No response means a transport-level failure; worth retrying.
	return httpx.NewTimeoutError(endpoint, httpx.RedactURLSecrets(err.Error()))
}
