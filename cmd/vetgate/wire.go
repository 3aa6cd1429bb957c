package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vetgate/internal/agent"
	"github.com/fyrsmithlabs/vetgate/internal/config"
	"github.com/fyrsmithlabs/vetgate/internal/logging"
	"github.com/fyrsmithlabs/vetgate/internal/memory"
	"github.com/fyrsmithlabs/vetgate/internal/orchestrator"
	"github.com/fyrsmithlabs/vetgate/internal/review"
)

// deps holds the wired collaborators for one invocation.
type deps struct {
	logger   *zap.Logger
	registry *agent.Registry
	global   agent.Agent
	store    memory.Store
	service  *orchestrator.Service

	closers []func() error
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = d.logger.Sync()
}

// buildDeps constructs the logger, agents, memory store, escalator and
// orchestrator from configuration.
func buildDeps(cfg *config.Config) (*deps, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	d := &deps{logger: logger}

	dirFor := func(module string) string {
		return filepath.Join(cfg.Run.ModuleRoot, module)
	}

	d.registry, err = agent.NewDefaultRegistry(cfg.AgentCommands, dirFor, logger)
	if err != nil {
		return nil, fmt.Errorf("build agent registry: %w", err)
	}
	d.global, err = agent.NewGlobalAgent(cfg.AgentCommands, logger)
	if err != nil {
		return nil, err
	}

	d.store, err = buildStore(cfg.Memory, logger)
	if err != nil {
		return nil, fmt.Errorf("build memory store: %w", err)
	}
	d.closers = append(d.closers, d.store.Close)

	escalator, err := buildEscalator(cfg.Review, logger, d)
	if err != nil {
		return nil, fmt.Errorf("build escalator: %w", err)
	}

	d.service, err = orchestrator.NewService(orchestrator.Config{
		Modules:      cfg.Run.Modules,
		AgentTimeout: cfg.Run.AgentTimeout,
	}, d.registry, d.global, d.store, escalator, logger)
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	return d, nil
}

func buildStore(cfg config.MemoryConfig, logger *zap.Logger) (memory.Store, error) {
	switch cfg.Provider {
	case "sqlite":
		return memory.NewSQLiteStore(cfg.Path, logger)
	default:
		return memory.NewFileStore(cfg.Path, logger)
	}
}

func buildEscalator(cfg config.ReviewConfig, logger *zap.Logger, d *deps) (review.Escalator, error) {
	switch cfg.Provider {
	case "github":
		token := os.Getenv(cfg.GitHub.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("environment variable %s is not set", cfg.GitHub.TokenEnv)
		}
		return review.NewGitHubEscalator(context.Background(), cfg.GitHub.Owner, cfg.GitHub.Repo, token, logger)
	case "nats":
		e, err := review.NewNATSEscalator(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, e.Close)
		return e, nil
	default:
		return review.NewLogEscalator(logger), nil
	}
}
