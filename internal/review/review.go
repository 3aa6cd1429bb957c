package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Escalator notifies a human-review process about a module with failing
// agents. issues are formatted "<agent>: <details>", one per failing agent.
type Escalator interface {
	Escalate(ctx context.Context, module string, issues []string) error
}

// summary renders the issues as a readable block shared by all escalators.
func summary(module string, issues []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation failures in module %q (%d issue(s)):\n", module, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	return b.String()
}

// LogEscalator is the default channel: it writes the review request to the
// run's own log, where CI surfaces it to humans.
type LogEscalator struct {
	logger *zap.Logger
}

// NewLogEscalator creates a log-backed escalator.
func NewLogEscalator(logger *zap.Logger) *LogEscalator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEscalator{logger: logger}
}

// Escalate logs the review request.
func (e *LogEscalator) Escalate(_ context.Context, module string, issues []string) error {
	e.logger.Warn("human review requested",
		zap.String("module", module),
		zap.Int("issue_count", len(issues)),
		zap.Strings("issues", issues),
	)
	return nil
}
