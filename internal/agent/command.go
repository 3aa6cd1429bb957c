package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// maxDetailsLength caps captured command output so a chatty tool cannot bloat
// memory records and escalation payloads.
const maxDetailsLength = 8192

// CommandAgent runs a configured command for each module and maps the exit
// status to a Result. Exit 0 passes; a non-zero exit is an expected check
// failure carrying the command's combined output. Any other execution error
// (missing binary, bad working directory) is returned as-is and treated as
// fatal upstream.
type CommandAgent struct {
	name   string
	argv   []string
	dirFor func(module string) string
	logger *zap.Logger
}

// NewCommandAgent creates a command-backed agent.
//
// dirFor resolves a module name to the working directory the command runs in;
// nil means the current directory. The module name is also exported to the
// command as VETGATE_MODULE.
func NewCommandAgent(name string, argv []string, dirFor func(module string) string, logger *zap.Logger) (*CommandAgent, error) {
	if name == "" {
		return nil, errors.New("agent name is required")
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("agent %q: command is required", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandAgent{name: name, argv: argv, dirFor: dirFor, logger: logger}, nil
}

// Name returns the agent's registered name.
func (a *CommandAgent) Name() string { return a.name }

// Check runs the command against the module.
func (a *CommandAgent) Check(ctx context.Context, module string) (Result, error) {
	cmd := exec.CommandContext(ctx, a.argv[0], a.argv[1:]...)
	if a.dirFor != nil {
		cmd.Dir = a.dirFor(module)
	}
	cmd.Env = append(cmd.Environ(), "VETGATE_MODULE="+module)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	a.logger.Debug("running command agent",
		zap.String("agent", a.name),
		zap.String("module", module),
		zap.Strings("argv", a.argv),
	)

	err := cmd.Run()
	details := truncateDetails(strings.TrimSpace(out.String()))

	if err == nil {
		if details == "" {
			details = fmt.Sprintf("%s passed for %s", a.name, module)
		}
		return Result{Passed: true, Details: details}, nil
	}

	// Context expiry is surfaced to the coordinator, which substitutes a
	// synthetic timeout result instead of failing the run.
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if details == "" {
			details = fmt.Sprintf("%s exited with code %d", a.argv[0], exitErr.ExitCode())
		}
		return Result{Passed: false, Details: details}, nil
	}

	return Result{}, fmt.Errorf("agent %q: run %q: %w", a.name, a.argv[0], err)
}

func truncateDetails(s string) string {
	if len(s) <= maxDetailsLength {
		return s
	}
	return s[:maxDetailsLength] + "... [truncated]"
}
