// Package run orchestrates a single action run: parse the event, detect
// the mode, gate the actor, prepare the mode, and assemble the filtered
// conversation history.
package run

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/openclaw/claude-action/internal/adapter/ghoutput"
	"github.com/openclaw/claude-action/internal/adapter/observability"
	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/event"
	"github.com/openclaw/claude-action/internal/usecase/gate"
	"github.com/openclaw/claude-action/internal/usecase/history"
	"github.com/openclaw/claude-action/internal/usecase/modes"
)

// GitHub is the full adapter surface the pipeline needs.
type GitHub interface {
	gate.UserAPI
	gate.PermissionAPI
	modes.GitHubOps

	FetchComments(ctx context.Context, repo domain.Repository, number int) ([]domain.Comment, error)
	FetchReviews(ctx context.Context, repo domain.Repository, number int) ([]domain.Review, error)
}

// Pipeline wires the run stages together.
type Pipeline struct {
	GitHub GitHub
	Logger observability.Logger

	// GithubTokenProvided records whether the API token was supplied
	// directly through the github_token input. Permission bypass lists
	// are only honored in that case.
	GithubTokenProvided bool

	// Deps are handed to mode preparation.
	Deps modes.Deps
}

// Outcome is everything a run produced, handed to the invocation boundary
// and serialized into workflow outputs.
type Outcome struct {
	// ExecutionID uniquely identifies this run for log correlation.
	ExecutionID string

	Mode            modes.Name
	ContainsTrigger bool
	Result          modes.Result

	// Comments and Reviews are the sanitized, time-filtered conversation
	// history. Empty for automation contexts.
	Comments []domain.Comment
	Reviews  []domain.Review
}

// ErrInsufficientPermission is returned when the actor passed the human
// check but lacks write access.
type ErrInsufficientPermission struct {
	Actor string
}

func (e *ErrInsufficientPermission) Error() string {
	return fmt.Sprintf("actor %s does not have write access to the repository", e.Actor)
}

// Execute runs the full pipeline for one raw event.
func (p *Pipeline) Execute(ctx context.Context, raw event.Raw) (Outcome, error) {
	outcome := Outcome{ExecutionID: uuid.NewString()}

	gctx, err := event.Parse(raw)
	if err != nil {
		return outcome, err
	}

	common := gctx.CommonFields()
	p.Logger.LogInfo(ctx, "run started", map[string]interface{}{
		"execution_id": outcome.ExecutionID,
		"event":        string(common.EventName),
		"action":       common.EventAction,
		"actor":        common.Actor,
		"repository":   common.Repository.FullName,
	})

	modeName, err := modes.Detect(gctx)
	if err != nil {
		return outcome, err
	}
	outcome.Mode = modeName
	mode := modes.ForName(modeName)

	if !mode.ShouldTrigger(gctx) {
		p.Logger.LogInfo(ctx, "no trigger detected, exiting", map[string]interface{}{
			"execution_id": outcome.ExecutionID,
			"mode":         string(modeName),
		})
		return outcome, nil
	}
	outcome.ContainsTrigger = true

	// Automation events carry no actor-originated content; the gate only
	// applies to entity events.
	if entity, ok := gctx.(*domain.EntityContext); ok {
		if err := gate.CheckHumanActor(ctx, p.GitHub, common.Actor, common.Inputs); err != nil {
			return outcome, err
		}

		allowed, err := gate.CheckWritePermissions(ctx, p.GitHub, p.Logger, common.Repository, common.Actor, common.Inputs, p.GithubTokenProvided)
		if err != nil {
			return outcome, err
		}
		if !allowed {
			return outcome, &ErrInsufficientPermission{Actor: common.Actor}
		}

		if err := p.assembleHistory(ctx, &outcome, entity); err != nil {
			return outcome, err
		}
	}

	result, err := mode.Prepare(ctx, p.Deps, gctx)
	if err != nil {
		return outcome, err
	}
	outcome.Result = result

	p.Logger.LogInfo(ctx, "run prepared", map[string]interface{}{
		"execution_id": outcome.ExecutionID,
		"mode":         string(modeName),
		"branch":       result.Branch.CurrentBranch,
		"comment_id":   result.CommentID,
	})
	return outcome, nil
}

// assembleHistory fetches and filters the conversation for an entity event.
func (p *Pipeline) assembleHistory(ctx context.Context, outcome *Outcome, entity *domain.EntityContext) error {
	triggerTime := history.TriggerTime(entity)

	comments, err := p.GitHub.FetchComments(ctx, entity.Repository, entity.EntityNumber)
	if err != nil {
		return err
	}
	outcome.Comments = history.PrepareComments(comments, triggerTime)

	if entity.IsPR {
		reviews, err := p.GitHub.FetchReviews(ctx, entity.Repository, entity.EntityNumber)
		if err != nil {
			return err
		}
		outcome.Reviews = history.PrepareReviews(reviews, triggerTime)
	}
	return nil
}

// Outputs converts an outcome into the workflow output key/value map.
func Outputs(outcome Outcome) map[string]string {
	values := map[string]string{
		ghoutput.KeyContainsTrigger: strconv.FormatBool(outcome.ContainsTrigger),
		ghoutput.KeyMode:            string(outcome.Mode),
	}
	if outcome.Result.Branch.ClaudeBranch != "" {
		values[ghoutput.KeyClaudeBranch] = outcome.Result.Branch.ClaudeBranch
	}
	if outcome.Result.Branch.BaseBranch != "" {
		values[ghoutput.KeyBaseBranch] = outcome.Result.Branch.BaseBranch
	}
	if outcome.Result.CommentID != 0 {
		values[ghoutput.KeyCommentID] = strconv.FormatInt(outcome.Result.CommentID, 10)
	}
	return values
}
