package modes

import (
	"context"
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
)

// AgentMode is the automation mode: it runs an explicit prompt and posts
// no tracking comment.
type AgentMode struct{}

func (AgentMode) Name() Name { return NameAgent }

// ShouldTrigger fires only on a non-empty explicit prompt. This is what
// makes the detector's agent default inert: a context that reached agent
// mode without a prompt simply results in a no-op run.
func (AgentMode) ShouldTrigger(gctx domain.Context) bool {
	return strings.TrimSpace(gctx.CommonFields().Inputs.Prompt) != ""
}

func (AgentMode) ShouldCreateTrackingComment(gctx domain.Context) bool { return false }

func (AgentMode) AllowedTools(gctx domain.Context) []string { return nil }

func (AgentMode) DisallowedTools(gctx domain.Context) []string { return nil }

// Prepare sets up a working branch for entity contexts. Automation
// contexts have no entity to branch from and prepare nothing.
func (AgentMode) Prepare(ctx context.Context, deps Deps, gctx domain.Context) (Result, error) {
	entity, ok := gctx.(*domain.EntityContext)
	if !ok {
		return Result{}, nil
	}

	branch, err := setupBranch(ctx, deps, entity)
	if err != nil {
		return Result{}, err
	}
	return Result{Branch: branch}, nil
}
