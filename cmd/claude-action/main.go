package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openclaw/claude-action/internal/adapter/cli"
	"github.com/openclaw/claude-action/internal/adapter/ghoutput"
	githubadapter "github.com/openclaw/claude-action/internal/adapter/github"
	"github.com/openclaw/claude-action/internal/adapter/httpx"
	"github.com/openclaw/claude-action/internal/adapter/observability"
	"github.com/openclaw/claude-action/internal/config"
	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/usecase/event"
	"github.com/openclaw/claude-action/internal/usecase/modes"
	"github.com/openclaw/claude-action/internal/usecase/run"
	"github.com/openclaw/claude-action/internal/version"
)

func main() {
	if err := realMain(); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return
		}
		log.Println(httpx.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func realMain() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Local development convenience; the runner never has a .env file.
	_ = godotenv.Load()

	settings, err := config.Load(config.LoaderOptions{})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := observability.NewLogger(os.Stderr, observability.ParseLevel(settings.Config.Logging.Level))

	ghClient := githubadapter.NewClient(ctx, settings.Token(),
		githubadapter.WithBaseURLs(settings.Runner.APIURL, settings.Runner.GraphQLURL),
		githubadapter.WithRetryConfig(retryConfig(settings.Config.HTTP)),
		githubadapter.WithTimeout(httpTimeout(settings.Config.HTTP)),
	)

	pipeline := &run.Pipeline{
		GitHub:              ghClient,
		Logger:              logger,
		GithubTokenProvided: settings.GithubTokenProvided(),
		Deps: modes.Deps{
			GitHub: ghClient,
			Logger: logger,
		},
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Runner:       pipeline,
		LoadEvent:    func() (event.Raw, error) { return loadEvent(settings) },
		WriteOutputs: writeOutputs(settings),
		Args: cli.Arguments{
			OutWriter: os.Stdout,
			ErrWriter: os.Stderr,
		},
		Version: version.Version(),
	})

	return root.ExecuteContext(ctx)
}

// loadEvent assembles the raw event from the runner environment and the
// payload file GITHUB_EVENT_PATH points at.
func loadEvent(settings config.Settings) (event.Raw, error) {
	if settings.Runner.EventName == "" {
		return event.Raw{}, fmt.Errorf("GITHUB_EVENT_NAME is not set")
	}

	var payload []byte
	if settings.Runner.EventPath != "" {
		data, err := os.ReadFile(settings.Runner.EventPath)
		if err != nil {
			return event.Raw{}, fmt.Errorf("read event payload: %w", err)
		}
		payload = data
	}

	owner, name := settings.RepositoryParts()
	return event.Raw{
		Name:    settings.Runner.EventName,
		Payload: payload,
		RunID:   settings.Runner.RunID,
		Repository: domain.Repository{
			Owner:    owner,
			Name:     name,
			FullName: settings.Runner.Repository,
		},
		Actor:  settings.Runner.Actor,
		Inputs: settings.DomainInputs(),
	}, nil
}

func writeOutputs(settings config.Settings) func(map[string]string) error {
	return func(values map[string]string) error {
		return ghoutput.WriteFile(settings.Runner.OutputPath, values)
	}
}

func retryConfig(httpCfg config.HTTPConfig) httpx.RetryConfig {
	conf := httpx.DefaultRetryConfig()
	if httpCfg.MaxRetries > 0 {
		conf.MaxRetries = httpCfg.MaxRetries
	}
	if d, err := time.ParseDuration(httpCfg.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(httpCfg.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	if httpCfg.BackoffMultiplier > 0 {
		conf.Multiplier = httpCfg.BackoffMultiplier
	}
	return conf
}

func httpTimeout(httpCfg config.HTTPConfig) time.Duration {
	if d, err := time.ParseDuration(httpCfg.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}
