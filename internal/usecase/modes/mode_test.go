package modes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/modes"
)

type fakeGitHubOps struct {
	commentID      int64
	commentErr     error
	upserts        int
	actorReceived  string
	stickyReceived bool

	defaultBranch string

	prHead string
	prOpen bool
	prErr  error

	createdBranch string
	createdFrom   string
	createErr     error
}

func (f *fakeGitHubOps) UpsertTrackingComment(ctx context.Context, repo domain.Repository, number int, actor string, sticky bool) (int64, error) {
	f.upserts++
	f.actorReceived = actor
	f.stickyReceived = sticky
	return f.commentID, f.commentErr
}

func (f *fakeGitHubOps) DefaultBranch(ctx context.Context, repo domain.Repository) (string, error) {
	return f.defaultBranch, nil
}

func (f *fakeGitHubOps) PullRequestHead(ctx context.Context, repo domain.Repository, number int) (string, bool, error) {
	return f.prHead, f.prOpen, f.prErr
}

func (f *fakeGitHubOps) CreateBranch(ctx context.Context, repo domain.Repository, name, from string) error {
	f.createdBranch = name
	f.createdFrom = from
	return f.createErr
}

type nopLogger struct{}

func (nopLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{})    {}
func (nopLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {}

func fixedDeps(ops *fakeGitHubOps) modes.Deps {
	return modes.Deps{
		GitHub: ops,
		Logger: nopLogger{},
		Now: func() time.Time {
			return time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC)
		},
	}
}

func issueEntity(number int, inputs domain.Inputs) *domain.EntityContext {
	return &domain.EntityContext{
		Common: domain.Common{
			EventName:  domain.EventIssues,
			Repository: domain.Repository{Owner: "octo", Name: "widgets", FullName: "octo/widgets"},
			Actor:      "alice",
			Inputs:     inputs,
		},
		EntityNumber: number,
		Payload:      domain.EntityPayload{Issue: &domain.Issue{Number: number}},
	}
}

func prEntity(number int, inputs domain.Inputs) *domain.EntityContext {
	c := issueEntity(number, inputs)
	c.EventName = domain.EventPullRequest
	c.IsPR = true
	c.Payload = domain.EntityPayload{PullRequest: &domain.PullRequest{Number: number}}
	return c
}

func TestForName(t *testing.T) {
	assert.Equal(t, modes.NameTag, modes.ForName(modes.NameTag).Name())
	assert.Equal(t, modes.NameAgent, modes.ForName(modes.NameAgent).Name())
	assert.Panics(t, func() { modes.ForName("mystery") })
}

func TestTagMode_Prepare(t *testing.T) {
	inputs := domain.Inputs{TriggerPhrase: "@claude", BranchPrefix: "claude/", UseStickyComment: true}

	t.Run("issue gets tracking comment and fresh branch", func(t *testing.T) {
		ops := &fakeGitHubOps{commentID: 777, defaultBranch: "main"}
		result, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(ops), issueEntity(12, inputs))
		require.NoError(t, err)

		assert.Equal(t, int64(777), result.CommentID)
		assert.True(t, ops.stickyReceived)
		assert.Equal(t, "alice", ops.actorReceived)
		assert.Equal(t, "claude/issue-12-20240115-123045", result.Branch.ClaudeBranch)
		assert.Equal(t, result.Branch.ClaudeBranch, result.Branch.CurrentBranch)
		assert.Equal(t, "main", result.Branch.BaseBranch)
		assert.Equal(t, "main", ops.createdFrom)
		assert.Contains(t, result.AllowedTools, "mcp__github_comment__update_claude_comment")
	})

	t.Run("open PR works on its own branch", func(t *testing.T) {
		ops := &fakeGitHubOps{commentID: 778, prHead: "feature/x", prOpen: true}
		result, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(ops), prEntity(9, inputs))
		require.NoError(t, err)

		assert.Equal(t, "feature/x", result.Branch.CurrentBranch)
		assert.Empty(t, result.Branch.ClaudeBranch)
		assert.Empty(t, ops.createdBranch, "no branch should be created for an open PR")
	})

	t.Run("closed PR gets fresh branch", func(t *testing.T) {
		ops := &fakeGitHubOps{commentID: 779, prOpen: false, defaultBranch: "main"}
		result, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(ops), prEntity(9, inputs))
		require.NoError(t, err)

		assert.Equal(t, "claude/pr-9-20240115-123045", result.Branch.ClaudeBranch)
	})

	t.Run("configured base branch wins over default", func(t *testing.T) {
		withBase := inputs
		withBase.BaseBranch = "develop"
		ops := &fakeGitHubOps{commentID: 780, defaultBranch: "main"}
		result, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(ops), issueEntity(3, withBase))
		require.NoError(t, err)

		assert.Equal(t, "develop", result.Branch.BaseBranch)
		assert.Equal(t, "develop", ops.createdFrom)
	})

	t.Run("comment failure aborts", func(t *testing.T) {
		ops := &fakeGitHubOps{commentErr: errors.New("403")}
		_, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(ops), issueEntity(1, inputs))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tracking comment")
	})

	t.Run("automation context is rejected", func(t *testing.T) {
		auto := &domain.AutomationContext{Common: domain.Common{EventName: domain.EventSchedule}}
		_, err := modes.TagMode{}.Prepare(context.Background(), fixedDeps(&fakeGitHubOps{}), auto)
		require.Error(t, err)
	})
}

func TestAgentMode_Prepare(t *testing.T) {
	t.Run("automation context prepares nothing", func(t *testing.T) {
		ops := &fakeGitHubOps{}
		auto := &domain.AutomationContext{Common: domain.Common{EventName: domain.EventWorkflowDispatch}}
		result, err := modes.AgentMode{}.Prepare(context.Background(), fixedDeps(ops), auto)
		require.NoError(t, err)

		assert.Zero(t, result.CommentID)
		assert.Zero(t, ops.upserts)
	})

	t.Run("entity context gets branch but no comment", func(t *testing.T) {
		inputs := domain.Inputs{BranchPrefix: "claude/", Prompt: "fix it"}
		ops := &fakeGitHubOps{defaultBranch: "main"}
		result, err := modes.AgentMode{}.Prepare(context.Background(), fixedDeps(ops), issueEntity(4, inputs))
		require.NoError(t, err)

		assert.Zero(t, result.CommentID)
		assert.Zero(t, ops.upserts)
		assert.Equal(t, "claude/issue-4-20240115-123045", result.Branch.ClaudeBranch)
	})
}

func TestModeShouldTrigger(t *testing.T) {
	t.Run("agent needs prompt", func(t *testing.T) {
		withPrompt := &domain.AutomationContext{Common: domain.Common{
			EventName: domain.EventSchedule,
			Inputs:    domain.Inputs{Prompt: "go"},
		}}
		without := &domain.AutomationContext{Common: domain.Common{EventName: domain.EventSchedule}}

		assert.True(t, modes.AgentMode{}.ShouldTrigger(withPrompt))
		assert.False(t, modes.AgentMode{}.ShouldTrigger(without))
	})

	t.Run("tag never fires on automation context", func(t *testing.T) {
		auto := &domain.AutomationContext{Common: domain.Common{
			EventName: domain.EventSchedule,
			Inputs:    domain.Inputs{Prompt: "go"},
		}}
		assert.False(t, modes.TagMode{}.ShouldTrigger(auto))
	})

	t.Run("tracking comment ownership", func(t *testing.T) {
		entity := issueEntity(1, domain.Inputs{})
		auto := &domain.AutomationContext{Common: domain.Common{EventName: domain.EventSchedule}}

		assert.True(t, modes.TagMode{}.ShouldCreateTrackingComment(entity))
		assert.False(t, modes.TagMode{}.ShouldCreateTrackingComment(auto))
		assert.False(t, modes.AgentMode{}.ShouldCreateTrackingComment(entity))
	})
}
