package agent

import "context"

// Result is the outcome of a single agent invocation. It is immutable once
// returned and never shared across invocations.
type Result struct {
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Agent is a named validation check run against a module.
//
// Check reports expected failures via Result.Passed=false. A non-nil error
// means the agent itself broke (not that the check failed) and is treated as
// fatal by the orchestrator.
type Agent interface {
	Name() string
	Check(ctx context.Context, module string) (Result, error)
}

// Func adapts a plain function to the Agent interface.
type Func struct {
	AgentName string
	Fn        func(ctx context.Context, module string) (Result, error)
}

// Name returns the agent's registered name.
func (f Func) Name() string { return f.AgentName }

// Check invokes the wrapped function.
func (f Func) Check(ctx context.Context, module string) (Result, error) {
	return f.Fn(ctx, module)
}
