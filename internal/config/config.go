// Package config provides configuration loading for vetgate.
//
// Configuration is loaded from a YAML file and overridden by VETGATE_*
// environment variables, with hardcoded defaults below both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete vetgate configuration.
type Config struct {
	Run     RunConfig     `koanf:"run"`
	Memory  MemoryConfig  `koanf:"memory"`
	Review  ReviewConfig  `koanf:"review"`
	Logging LoggingConfig `koanf:"logging"`

	// AgentCommands overrides the command an agent runs, keyed by agent
	// name. Unlisted agents keep their built-in command.
	AgentCommands map[string][]string `koanf:"agent_commands"`
}

// RunConfig holds orchestrator run settings.
type RunConfig struct {
	// Modules is the declared module universe.
	Modules []string `koanf:"modules"`

	// ModuleRoot is the directory containing one subdirectory per module;
	// command agents run with the module's subdirectory as working dir.
	ModuleRoot string `koanf:"module_root"`

	// AgentTimeout is the per-agent deadline. An agent that exceeds it is
	// recorded as a failed result, not a fatal error.
	AgentTimeout time.Duration `koanf:"agent_timeout"`
}

// MemoryConfig selects and configures the memory store.
type MemoryConfig struct {
	// Provider is "file" (default, embedded) or "sqlite".
	Provider string `koanf:"provider"`
	Path     string `koanf:"path"`
}

// ReviewConfig selects and configures the human-review escalation channel.
type ReviewConfig struct {
	// Provider is "log" (default), "github" or "nats".
	Provider string       `koanf:"provider"`
	GitHub   GitHubConfig `koanf:"github"`
	NATS     NATSConfig   `koanf:"nats"`
}

// GitHubConfig configures the GitHub issue escalator.
type GitHubConfig struct {
	Owner string `koanf:"owner"`
	Repo  string `koanf:"repo"`
	// TokenEnv names the environment variable holding the API token, so the
	// token itself never lives in the config file.
	TokenEnv string `koanf:"token_env"`
}

// NATSConfig configures the NATS escalator.
type NATSConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// DefaultDataDir returns the directory vetgate keeps its state in.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vetgate"
	}
	return filepath.Join(home, ".config", "vetgate")
}

func applyDefaults(cfg *Config) {
	if len(cfg.Run.Modules) == 0 {
		cfg.Run.Modules = []string{"suppliers", "customers", "inspections", "components"}
	}
	if cfg.Run.ModuleRoot == "" {
		cfg.Run.ModuleRoot = "."
	}
	if cfg.Run.AgentTimeout == 0 {
		cfg.Run.AgentTimeout = 5 * time.Minute
	}

	if cfg.Memory.Provider == "" {
		cfg.Memory.Provider = "file"
	}
	if cfg.Memory.Path == "" {
		switch cfg.Memory.Provider {
		case "sqlite":
			cfg.Memory.Path = filepath.Join(DefaultDataDir(), "memory.db")
		default:
			cfg.Memory.Path = filepath.Join(DefaultDataDir(), "memory.json")
		}
	}

	if cfg.Review.Provider == "" {
		cfg.Review.Provider = "log"
	}
	if cfg.Review.NATS.Subject == "" {
		cfg.Review.NATS.Subject = "vetgate.review"
	}
	if cfg.Review.GitHub.TokenEnv == "" {
		cfg.Review.GitHub.TokenEnv = "GITHUB_TOKEN"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks the configuration for contradictions and missing values.
func (c *Config) Validate() error {
	if len(c.Run.Modules) == 0 {
		return errors.New("run.modules must not be empty")
	}
	seen := map[string]struct{}{}
	for _, m := range c.Run.Modules {
		if m == "" {
			return errors.New("run.modules contains an empty name")
		}
		if _, dup := seen[m]; dup {
			return fmt.Errorf("run.modules contains duplicate %q", m)
		}
		seen[m] = struct{}{}
	}
	if c.Run.AgentTimeout < 0 {
		return errors.New("run.agent_timeout cannot be negative")
	}

	switch c.Memory.Provider {
	case "file", "sqlite":
	default:
		return fmt.Errorf("memory.provider must be file or sqlite, got %q", c.Memory.Provider)
	}

	switch c.Review.Provider {
	case "log":
	case "github":
		if c.Review.GitHub.Owner == "" || c.Review.GitHub.Repo == "" {
			return errors.New("review.github.owner and review.github.repo are required for the github provider")
		}
	case "nats":
		if c.Review.NATS.URL == "" {
			return errors.New("review.nats.url is required for the nats provider")
		}
	default:
		return fmt.Errorf("review.provider must be log, github or nats, got %q", c.Review.Provider)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
