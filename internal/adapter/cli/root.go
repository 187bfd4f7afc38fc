// Package cli wires the cobra command tree for the claude-action binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/claude-action/internal/usecase/event"
	"github.com/openclaw/claude-action/internal/usecase/modes"
	"github.com/openclaw/claude-action/internal/usecase/run"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Runner executes the full run pipeline.
type Runner interface {
	Execute(ctx context.Context, raw event.Raw) (run.Outcome, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Runner       Runner
	LoadEvent    func() (event.Raw, error)
	WriteOutputs func(values map[string]string) error
	Args         Arguments
	Version      string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "claude-action",
		Short: "GitHub event gateway for the Claude assistant",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(runCommand(deps))
	root.AddCommand(detectCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func runCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the full pipeline for the current event",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := deps.LoadEvent()
			if err != nil {
				return fmt.Errorf("load event: %w", err)
			}

			outcome, err := deps.Runner.Execute(cmd.Context(), raw)
			if err != nil {
				return err
			}

			if err := deps.WriteOutputs(run.Outputs(outcome)); err != nil {
				return fmt.Errorf("write outputs: %w", err)
			}

			if !outcome.ContainsTrigger {
				fmt.Fprintln(cmd.OutOrStdout(), "no trigger detected")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mode=%s\n", outcome.Mode)
			return nil
		},
	}
}

// detectCommand classifies the event without performing any API side
// effects. Useful as a cheap workflow pre-check before provisioning the
// assistant environment.
func detectCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect mode and trigger for the current event without side effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := deps.LoadEvent()
			if err != nil {
				return fmt.Errorf("load event: %w", err)
			}

			gctx, err := event.Parse(raw)
			if err != nil {
				return err
			}

			modeName, err := modes.Detect(gctx)
			if err != nil {
				return err
			}
			triggered := modes.ForName(modeName).ShouldTrigger(gctx)

			if err := deps.WriteOutputs(map[string]string{
				"mode":             string(modeName),
				"contains_trigger": fmt.Sprintf("%t", triggered),
			}); err != nil {
				return fmt.Errorf("write outputs: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mode=%s contains_trigger=%t\n", modeName, triggered)
			return nil
		},
	}
}
