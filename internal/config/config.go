// Package config loads and merges action configuration from a settings
// file, process environment, and GitHub Actions input variables.
package config

import (
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
)

// Config represents the full application configuration.
type Config struct {
	Trigger TriggerConfig `yaml:"trigger"`
	Branch  BranchConfig  `yaml:"branch"`
	Bot     BotConfig     `yaml:"bot"`
	Access  AccessConfig  `yaml:"access"`
	Run     RunConfig     `yaml:"run"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// TriggerConfig controls how interactive runs are activated.
type TriggerConfig struct {
	Phrase   string `yaml:"phrase"`
	Assignee string `yaml:"assignee"`
	Label    string `yaml:"label"`
}

// BranchConfig controls working-branch creation.
type BranchConfig struct {
	Prefix string `yaml:"prefix"`
	Base   string `yaml:"base"`
}

// BotConfig identifies the account the assistant acts as.
type BotConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// AccessConfig controls who may trigger runs.
type AccessConfig struct {
	// AllowedBots is a comma-separated list of bot logins, or "*".
	AllowedBots string `yaml:"allowedBots"`
	// AllowedNonWriteUsers is a comma-separated list of usernames exempt
	// from the write requirement, or "*". Only honored for directly
	// supplied tokens.
	AllowedNonWriteUsers string `yaml:"allowedNonWriteUsers"`
}

// RunConfig controls per-run behavior.
type RunConfig struct {
	Prompt           string `yaml:"prompt"`
	TrackProgress    bool   `yaml:"trackProgress"`
	UseStickyComment bool   `yaml:"useStickyComment"`
	UseCommitSigning bool   `yaml:"useCommitSigning"`
}

// HTTPConfig holds GitHub API client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Runner is a snapshot of the GitHub Actions runner environment,
// populated from GITHUB_* variables.
type Runner struct {
	EventName  string `env:"GITHUB_EVENT_NAME"`
	EventPath  string `env:"GITHUB_EVENT_PATH"`
	Repository string `env:"GITHUB_REPOSITORY"`
	Actor      string `env:"GITHUB_ACTOR"`
	RunID      string `env:"GITHUB_RUN_ID"`
	OutputPath string `env:"GITHUB_OUTPUT"`
	Token      string `env:"GITHUB_TOKEN"`
	APIURL     string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL" envDefault:"https://api.github.com/graphql"`
}

// ActionInputs mirrors the INPUT_* variables the Actions runner sets for
// each declared action input. Set inputs override file configuration.
type ActionInputs struct {
	TriggerPhrase        string `env:"INPUT_TRIGGER_PHRASE"`
	AssigneeTrigger      string `env:"INPUT_ASSIGNEE_TRIGGER"`
	LabelTrigger         string `env:"INPUT_LABEL_TRIGGER"`
	BranchPrefix         string `env:"INPUT_BRANCH_PREFIX"`
	BaseBranch           string `env:"INPUT_BASE_BRANCH"`
	Prompt               string `env:"INPUT_PROMPT"`
	TrackProgress        bool   `env:"INPUT_TRACK_PROGRESS"`
	UseStickyComment     bool   `env:"INPUT_USE_STICKY_COMMENT"`
	UseCommitSigning     bool   `env:"INPUT_USE_COMMIT_SIGNING"`
	BotID                int64  `env:"INPUT_BOT_ID"`
	BotName              string `env:"INPUT_BOT_NAME"`
	AllowedBots          string `env:"INPUT_ALLOWED_BOTS"`
	AllowedNonWriteUsers string `env:"INPUT_ALLOWED_NON_WRITE_USERS"`
	GithubToken          string `env:"INPUT_GITHUB_TOKEN"`
}

// Settings is the fully resolved configuration plus the runner snapshot.
type Settings struct {
	Config Config
	Runner Runner

	// githubTokenProvided records whether the token came from the
	// github_token input rather than an app installation. Permission
	// bypass lists are only honored for directly supplied tokens.
	githubTokenProvided bool

	// tokenFromInput is unexported so callers go through Token and
	// cannot accidentally log it.
	tokenFromInput string
}

// Token returns the API token to use: the github_token input when set,
// otherwise the runner-provided token.
func (s Settings) Token() string {
	if s.githubTokenProvided {
		return s.tokenFromInput
	}
	return s.Runner.Token
}

// GithubTokenProvided reports whether the token was supplied directly
// through the github_token input.
func (s Settings) GithubTokenProvided() bool {
	return s.githubTokenProvided
}

// DomainInputs converts resolved configuration into the immutable inputs
// threaded through the pipeline.
func (s Settings) DomainInputs() domain.Inputs {
	return domain.Inputs{
		TriggerPhrase:        s.Config.Trigger.Phrase,
		AssigneeTrigger:      s.Config.Trigger.Assignee,
		LabelTrigger:         s.Config.Trigger.Label,
		BranchPrefix:         s.Config.Branch.Prefix,
		BaseBranch:           s.Config.Branch.Base,
		UseStickyComment:     s.Config.Run.UseStickyComment,
		UseCommitSigning:     s.Config.Run.UseCommitSigning,
		BotID:                s.Config.Bot.ID,
		BotName:              s.Config.Bot.Name,
		AllowedBots:          s.Config.Access.AllowedBots,
		AllowedNonWriteUsers: s.Config.Access.AllowedNonWriteUsers,
		TrackProgress:        s.Config.Run.TrackProgress,
		Prompt:               s.Config.Run.Prompt,
	}
}

// RepositoryParts splits the owner/name form GITHUB_REPOSITORY uses.
func (s Settings) RepositoryParts() (owner, name string) {
	parts := strings.SplitN(s.Runner.Repository, "/", 2)
	if len(parts) != 2 {
		return s.Runner.Repository, ""
	}
	return parts[0], parts[1]
}
