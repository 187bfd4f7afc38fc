package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration: defaults, then the settings file,
// then CLAUDE_ACTION_* environment overrides, then action inputs. The
// runner environment is captured alongside.
func Load(opts LoaderOptions) (Settings, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "claude-action"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "CLAUDE_ACTION"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	var runner Runner
	if err := env.Parse(&runner); err != nil {
		return Settings{}, fmt.Errorf("parse runner environment: %w", err)
	}

	var inputs ActionInputs
	if err := env.Parse(&inputs); err != nil {
		return Settings{}, fmt.Errorf("parse action inputs: %w", err)
	}

	cfg = applyInputs(cfg, inputs)
	cfg = expandEnvVars(cfg)

	return Settings{
		Config:              cfg,
		Runner:              runner,
		githubTokenProvided: inputs.GithubToken != "",
		tokenFromInput:      inputs.GithubToken,
	}, nil
}

// applyInputs overlays set action inputs onto the file configuration.
// Boolean inputs always win: the runner sets them explicitly.
func applyInputs(cfg Config, in ActionInputs) Config {
	if in.TriggerPhrase != "" {
		cfg.Trigger.Phrase = in.TriggerPhrase
	}
	if in.AssigneeTrigger != "" {
		cfg.Trigger.Assignee = in.AssigneeTrigger
	}
	if in.LabelTrigger != "" {
		cfg.Trigger.Label = in.LabelTrigger
	}
	if in.BranchPrefix != "" {
		cfg.Branch.Prefix = in.BranchPrefix
	}
	if in.BaseBranch != "" {
		cfg.Branch.Base = in.BaseBranch
	}
	if in.Prompt != "" {
		cfg.Run.Prompt = in.Prompt
	}
	if in.BotID != 0 {
		cfg.Bot.ID = in.BotID
	}
	if in.BotName != "" {
		cfg.Bot.Name = in.BotName
	}
	if in.AllowedBots != "" {
		cfg.Access.AllowedBots = in.AllowedBots
	}
	if in.AllowedNonWriteUsers != "" {
		cfg.Access.AllowedNonWriteUsers = in.AllowedNonWriteUsers
	}
	if _, set := os.LookupEnv("INPUT_TRACK_PROGRESS"); set {
		cfg.Run.TrackProgress = in.TrackProgress
	}
	if _, set := os.LookupEnv("INPUT_USE_STICKY_COMMENT"); set {
		cfg.Run.UseStickyComment = in.UseStickyComment
	}
	if _, set := os.LookupEnv("INPUT_USE_COMMIT_SIGNING"); set {
		cfg.Run.UseCommitSigning = in.UseCommitSigning
	}
	return cfg
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings.
func expandEnvVars(cfg Config) Config {
	cfg.Trigger.Phrase = expandEnvString(cfg.Trigger.Phrase)
	cfg.Trigger.Assignee = expandEnvString(cfg.Trigger.Assignee)
	cfg.Trigger.Label = expandEnvString(cfg.Trigger.Label)

	cfg.Branch.Prefix = expandEnvString(cfg.Branch.Prefix)
	cfg.Branch.Base = expandEnvString(cfg.Branch.Base)

	cfg.Bot.Name = expandEnvString(cfg.Bot.Name)
	cfg.Access.AllowedBots = expandEnvString(cfg.Access.AllowedBots)
	cfg.Access.AllowedNonWriteUsers = expandEnvString(cfg.Access.AllowedNonWriteUsers)

	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)

	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)

	return cfg
}

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	re := regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trigger.phrase", "@claude")

	v.SetDefault("branch.prefix", "claude/")

	v.SetDefault("bot.id", int64(41898282))
	v.SetDefault("bot.name", "claude[bot]")

	// HTTP defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.maxRetries", 4)
	v.SetDefault("http.initialBackoff", "1s")
	v.SetDefault("http.maxBackoff", "30s")
	v.SetDefault("http.backoffMultiplier", 2.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
}
