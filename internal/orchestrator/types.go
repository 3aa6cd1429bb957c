package orchestrator

import (
	"time"

	"github.com/fyrsmithlabs/vetgate/internal/agent"
)

// Scope is the resolved (modules, agents) pair for one run. It is immutable
// for the run's duration.
type Scope struct {
	Modules []string
	Agents  []string
}

// ModuleResult is one module's aggregated outcome. It is created once per
// module per run and never mutated after creation.
type ModuleResult struct {
	Module       string
	AgentResults map[string]agent.Result
	// Order is the prioritized execution order; map iteration order over
	// AgentResults is meaningless.
	Order      []string
	BestAgent  string
	BestAnswer string
	// Failed lists failing agents in prioritized order.
	Failed   []string
	Duration time.Duration
}

// GlobalResult is the outcome of the run-level agent, reported but never part
// of any module's aggregation.
type GlobalResult struct {
	Agent  string
	Result agent.Result
}

// Report is the full outcome of one orchestrator run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Global   *GlobalResult
	Modules  []ModuleResult
}

// Passed reports whether, for every module processed, every agent in the
// declared universe has a passing result recorded. Agents outside the run's
// scope count as missing, so a restricted run can never report full success.
func (r *Report) Passed(universe []string) bool {
	for _, mr := range r.Modules {
		for _, name := range universe {
			res, ok := mr.AgentResults[name]
			if !ok || !res.Passed {
				return false
			}
		}
	}
	return true
}

// ExitCode maps the report to the process exit code: 0 iff Passed.
func (r *Report) ExitCode(universe []string) int {
	if r.Passed(universe) {
		return 0
	}
	return 1
}
