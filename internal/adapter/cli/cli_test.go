package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/claude-action/internal/adapter/cli"
	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/event"
	"github.com/openclaw/claude-action/internal/usecase/modes"
	"github.com/openclaw/claude-action/internal/usecase/run"
)

type runnerStub struct {
	raw     event.Raw
	outcome run.Outcome
	err     error
}

func (r *runnerStub) Execute(ctx context.Context, raw event.Raw) (run.Outcome, error) {
	r.raw = raw
	return r.outcome, r.err
}

func mentionEvent() event.Raw {
	return event.Raw{
		Name: "issue_comment",
		Payload: []byte(`{
			"action": "created",
			"issue": {"number": 12, "title": "Bug", "user": {"login": "alice"}},
			"comment": {"id": 1, "body": "@claude fix", "user": {"login": "alice"}, "created_at": "2024-01-15T12:00:00Z"}
		}`),
		Repository: domain.Repository{Owner: "octo", Name: "widgets", FullName: "octo/widgets"},
		Actor:      "alice",
		Inputs:     domain.Inputs{TriggerPhrase: "@claude", BranchPrefix: "claude/"},
	}
}

func testDeps(stub *runnerStub, raw event.Raw, outputs *map[string]string, out io.Writer) cli.Dependencies {
	return cli.Dependencies{
		Runner:    stub,
		LoadEvent: func() (event.Raw, error) { return raw, nil },
		WriteOutputs: func(values map[string]string) error {
			*outputs = values
			return nil
		},
		Args:    cli.Arguments{OutWriter: out, ErrWriter: io.Discard},
		Version: "v1.2.3",
	}
}

func TestRunCommandExecutesPipeline(t *testing.T) {
	stub := &runnerStub{
		outcome: run.Outcome{
			Mode:            modes.NameTag,
			ContainsTrigger: true,
			Result:          modes.Result{CommentID: 777},
		},
	}
	var outputs map[string]string
	var out bytes.Buffer

	root := cli.NewRootCommand(testDeps(stub, mentionEvent(), &outputs, &out))
	root.SetArgs([]string{"run"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "issue_comment", stub.raw.Name)
	assert.Equal(t, "true", outputs["contains_trigger"])
	assert.Equal(t, "tag", outputs["mode"])
	assert.Contains(t, out.String(), "mode=tag")
}

func TestRunCommandReportsNoTrigger(t *testing.T) {
	stub := &runnerStub{outcome: run.Outcome{Mode: modes.NameAgent}}
	var outputs map[string]string
	var out bytes.Buffer

	root := cli.NewRootCommand(testDeps(stub, mentionEvent(), &outputs, &out))
	root.SetArgs([]string{"run"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "false", outputs["contains_trigger"])
	assert.Contains(t, out.String(), "no trigger detected")
}

func TestRunCommandPropagatesPipelineError(t *testing.T) {
	stub := &runnerStub{err: errors.New("permission denied")}
	var outputs map[string]string

	root := cli.NewRootCommand(testDeps(stub, mentionEvent(), &outputs, io.Discard))
	root.SetArgs([]string{"run"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Nil(t, outputs, "no outputs written on failure")
}

func TestDetectCommandClassifiesWithoutRunner(t *testing.T) {
	stub := &runnerStub{}
	var outputs map[string]string
	var out bytes.Buffer

	root := cli.NewRootCommand(testDeps(stub, mentionEvent(), &outputs, &out))
	root.SetArgs([]string{"detect"})
	require.NoError(t, root.Execute())

	assert.Empty(t, stub.raw.Name, "detect must not invoke the pipeline")
	assert.Equal(t, "tag", outputs["mode"])
	assert.Equal(t, "true", outputs["contains_trigger"])
	assert.Contains(t, out.String(), "mode=tag contains_trigger=true")
}

func TestDetectCommandUnsupportedEvent(t *testing.T) {
	stub := &runnerStub{}
	var outputs map[string]string

	raw := event.Raw{Name: "star", Actor: "alice"}
	root := cli.NewRootCommand(testDeps(stub, raw, &outputs, io.Discard))
	root.SetArgs([]string{"detect"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event type")
}

func TestVersionFlag(t *testing.T) {
	stub := &runnerStub{}
	var outputs map[string]string
	var out bytes.Buffer

	root := cli.NewRootCommand(testDeps(stub, mentionEvent(), &outputs, &out))
	root.SetArgs([]string{"--version"})

	err := root.Execute()
	require.ErrorIs(t, err, cli.ErrVersionRequested)
	assert.Equal(t, "v1.2.3", strings.TrimSpace(out.String()))
}
