package agent

import (
	"fmt"

	"go.uber.org/zap"
)

// GlobalAgentName is the run-level systems check executed once per
// invocation, outside any module's aggregation.
const GlobalAgentName = "systems"

// builtinOrder is the declared execution order of the per-module agents.
var builtinOrder = []string{"typecheck", "lint", "unittest", "dockerbuild", "secscan"}

// defaultCommands targets the conventional layout of the application this
// tool gates: a TypeScript monorepo with per-module Dockerfiles and Jest
// suites. Any of these can be overridden per agent in the config file.
var defaultCommands = map[string][]string{
	"typecheck":     {"npx", "tsc", "--noEmit"},
	"lint":          {"npx", "eslint", "."},
	"unittest":      {"npx", "jest", "--ci", "--silent"},
	"dockerbuild":   {"docker", "build", "-q", "."},
	GlobalAgentName: {"docker", "info"},
}

// NewDefaultRegistry builds the registry of built-in per-module agents.
// overrides replaces an agent's command by name; dirFor resolves a module
// name to its working directory.
func NewDefaultRegistry(overrides map[string][]string, dirFor func(module string) string, logger *zap.Logger) (*Registry, error) {
	agents := make([]Agent, 0, len(builtinOrder))
	for _, name := range builtinOrder {
		if name == "secscan" {
			a, err := NewSecretScanAgent(name, dirFor, logger)
			if err != nil {
				return nil, err
			}
			agents = append(agents, a)
			continue
		}
		argv := defaultCommands[name]
		if override, ok := overrides[name]; ok {
			argv = override
		}
		a, err := NewCommandAgent(name, argv, dirFor, logger)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return NewRegistry(agents...)
}

// NewGlobalAgent builds the systems agent, which checks run-level
// preconditions (by default, that the Docker daemon is reachable).
func NewGlobalAgent(overrides map[string][]string, logger *zap.Logger) (Agent, error) {
	argv := defaultCommands[GlobalAgentName]
	if override, ok := overrides[GlobalAgentName]; ok {
		argv = override
	}
	a, err := NewCommandAgent(GlobalAgentName, argv, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("build global agent: %w", err)
	}
	return a, nil
}
