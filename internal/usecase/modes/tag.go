package modes

import (
	"context"
	"fmt"

	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/trigger"
)

// commentUpdateTool lets the assistant update its own tracking comment.
const commentUpdateTool = "mcp__github_comment__update_claude_comment"

// TagMode is the interactive mode: it maintains a tracking comment on the
// entity and works on a dedicated branch.
type TagMode struct{}

func (TagMode) Name() Name { return NameTag }

// ShouldTrigger fires on any satisfied entity condition, or on an explicit
// prompt when track_progress routed a prompted event here. Automation
// contexts never reach tag mode and never fire it.
func (TagMode) ShouldTrigger(gctx domain.Context) bool {
	if _, ok := gctx.(*domain.EntityContext); !ok {
		return false
	}
	return trigger.ShouldTrigger(gctx)
}

func (TagMode) ShouldCreateTrackingComment(gctx domain.Context) bool {
	_, ok := gctx.(*domain.EntityContext)
	return ok
}

func (TagMode) AllowedTools(gctx domain.Context) []string {
	return []string{commentUpdateTool}
}

func (TagMode) DisallowedTools(gctx domain.Context) []string { return nil }

// Prepare posts (or reuses) the tracking comment and sets up the working
// branch. It owns the tracking-comment side effect exclusively.
func (TagMode) Prepare(ctx context.Context, deps Deps, gctx domain.Context) (Result, error) {
	entity, ok := gctx.(*domain.EntityContext)
	if !ok {
		return Result{}, fmt.Errorf("tag mode requires an entity context, got %s event", gctx.CommonFields().EventName)
	}

	commentID, err := deps.GitHub.UpsertTrackingComment(ctx, entity.Repository, entity.EntityNumber, entity.Actor, entity.Inputs.UseStickyComment)
	if err != nil {
		return Result{}, fmt.Errorf("create tracking comment: %w", err)
	}
	deps.Logger.LogInfo(ctx, "tracking comment ready", map[string]interface{}{
		"comment_id": commentID,
		"entity":     entity.EntityNumber,
	})

	branch, err := setupBranch(ctx, deps, entity)
	if err != nil {
		return Result{}, err
	}

	return Result{
		CommentID:    commentID,
		Branch:       branch,
		AllowedTools: TagMode{}.AllowedTools(gctx),
	}, nil
}
