package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
)

// setupBranch resolves where the run works. Open PRs are worked on
// directly; issues and closed or merged PRs get a fresh branch created off
// the configured base (or the repository default branch) via the refs API.
// The core never touches a working tree; checkout happens outside it.
func setupBranch(ctx context.Context, deps Deps, c *domain.EntityContext) (BranchInfo, error) {
	repo := c.Repository

	if c.IsPR {
		head, open, err := deps.GitHub.PullRequestHead(ctx, repo, c.EntityNumber)
		if err != nil {
			return BranchInfo{}, fmt.Errorf("fetch pull request %d: %w", c.EntityNumber, err)
		}
		if open {
			return BranchInfo{
				BaseBranch:    strings.TrimSpace(c.Inputs.BaseBranch),
				CurrentBranch: head,
			}, nil
		}
		deps.Logger.LogInfo(ctx, "pull request is closed, creating a new branch", map[string]interface{}{
			"pr": c.EntityNumber,
		})
	}

	base := strings.TrimSpace(c.Inputs.BaseBranch)
	if base == "" {
		defaultBranch, err := deps.GitHub.DefaultBranch(ctx, repo)
		if err != nil {
			return BranchInfo{}, fmt.Errorf("resolve default branch: %w", err)
		}
		base = defaultBranch
	}

	name := branchName(c, deps)
	if err := deps.GitHub.CreateBranch(ctx, repo, name, base); err != nil {
		return BranchInfo{}, fmt.Errorf("create branch %s from %s: %w", name, base, err)
	}

	return BranchInfo{
		BaseBranch:    base,
		ClaudeBranch:  name,
		CurrentBranch: name,
	}, nil
}

func branchName(c *domain.EntityContext, deps Deps) string {
	kind := "issue"
	if c.IsPR {
		kind = "pr"
	}
	stamp := deps.now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s%s-%d-%s", c.Inputs.BranchPrefix, kind, c.EntityNumber, stamp)
}
