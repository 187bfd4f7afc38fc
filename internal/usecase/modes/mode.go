// Package modes defines the two execution modes and the detection logic
// that selects exactly one of them per run.
//
// Tag mode is interactive: it tracks progress in a comment and reacts to
// mentions. Agent mode is automation: it runs an explicit prompt with no
// tracking comment by default. There is no third mode and no mode registry;
// every selection site switches exhaustively over the two variants.
package modes

import (
	"context"
	"time"

	"github.com/openclaw/claude-action/internal/domain"
)

// Name identifies a mode. Exactly two values exist.
type Name string

const (
	NameTag   Name = "tag"
	NameAgent Name = "agent"
)

// BranchInfo describes where the assistant's work should land.
type BranchInfo struct {
	// BaseBranch is the branch new work branches from.
	BaseBranch string

	// ClaudeBranch is the branch created for this run, empty when the run
	// works directly on an existing PR branch.
	ClaudeBranch string

	// CurrentBranch is the branch the run should check out.
	CurrentBranch string
}

// Result is what a mode's preparation hands to the invocation boundary.
type Result struct {
	CommentID       int64
	Branch          BranchInfo
	AllowedTools    []string
	DisallowedTools []string
}

// GitHubOps is the slice of the GitHub adapter that mode preparation needs.
type GitHubOps interface {
	// UpsertTrackingComment creates the tracking comment for an entity, or
	// reuses the existing sticky comment when sticky is set. Returns the
	// comment id.
	UpsertTrackingComment(ctx context.Context, repo domain.Repository, number int, actor string, sticky bool) (int64, error)

	// DefaultBranch returns the repository default branch name.
	DefaultBranch(ctx context.Context, repo domain.Repository) (string, error)

	// PullRequestHead returns the head branch and open/closed state for a PR.
	PullRequestHead(ctx context.Context, repo domain.Repository, number int) (branch string, open bool, err error)

	// CreateBranch creates a new branch pointing at the head of from.
	CreateBranch(ctx context.Context, repo domain.Repository, name, from string) error
}

// Logger mirrors the observability logger used across the pipeline.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Deps carries the collaborators a mode needs during preparation.
type Deps struct {
	GitHub GitHubOps
	Logger Logger

	// Now supplies timestamps for generated branch names. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Mode is the capability set shared by the two variants. Prompt content and
// CLI invocation are outside this core; a mode only decides whether it
// fires and prepares the tracking comment, branch, and tool configuration.
type Mode interface {
	Name() Name

	// ShouldTrigger reports whether this mode has anything to do for the
	// context. A false return makes the run an inert no-op, not an error.
	ShouldTrigger(ctx domain.Context) bool

	// ShouldCreateTrackingComment reports whether this mode posts a
	// tracking comment for the context.
	ShouldCreateTrackingComment(ctx domain.Context) bool

	// AllowedTools and DisallowedTools configure the assistant invocation.
	AllowedTools(ctx domain.Context) []string
	DisallowedTools(ctx domain.Context) []string

	// Prepare performs the mode's side effects (tracking comment, branch
	// setup) and returns the run configuration.
	Prepare(ctx context.Context, deps Deps, gctx domain.Context) (Result, error)
}

// ForName returns the mode implementation for a name. The switch is
// exhaustive over the two variants; a new mode must be added here and at
// every other switch site before it can exist.
func ForName(name Name) Mode {
	switch name {
	case NameTag:
		return TagMode{}
	case NameAgent:
		return AgentMode{}
	}
	panic("modes: unknown mode name " + string(name))
}
